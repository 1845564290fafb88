package browser

import (
	"errors"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const staticBase = "https://catalog.test/catalogue/"

func newMockedRenderer(t *testing.T) *StaticRenderer {
	t.Helper()
	client := resty.New()
	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return NewStaticRenderer(client)
}

func TestStaticRendererNavigate(t *testing.T) {
	r := newMockedRenderer(t)
	httpmock.RegisterResponder("GET", staticBase+"page-1.html",
		httpmock.NewStringResponder(200, `<html><body><article class="product_pod"></article></body></html>`))

	require.NoError(t, r.Navigate(staticBase+"page-1.html"))

	html, err := r.Content()
	require.NoError(t, err)
	assert.Contains(t, html, "product_pod")
}

func TestStaticRendererNavigateHTTPError(t *testing.T) {
	r := newMockedRenderer(t)
	httpmock.RegisterResponder("GET", staticBase+"missing.html",
		httpmock.NewStringResponder(404, "not found"))

	err := r.Navigate(staticBase + "missing.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestStaticRendererWaitForSelector(t *testing.T) {
	r := newMockedRenderer(t)
	httpmock.RegisterResponder("GET", staticBase+"page-1.html",
		httpmock.NewStringResponder(200, `<html><body><ul class="breadcrumb"><li>Home</li></ul></body></html>`))

	require.NoError(t, r.Navigate(staticBase+"page-1.html"))

	el, err := r.WaitForSelector("ul.breadcrumb", time.Second)
	require.NoError(t, err)
	assert.NotNil(t, el)

	_, err = r.WaitForSelector("li.next > a", time.Second)
	assert.True(t, errors.Is(err, ErrSelectorNotFound))
}

func TestStaticRendererWaitBeforeNavigate(t *testing.T) {
	r := newMockedRenderer(t)

	_, err := r.WaitForSelector("article.product_pod", time.Second)
	assert.True(t, errors.Is(err, ErrSelectorNotFound))
}

func TestStaticElementClickFollowsHref(t *testing.T) {
	r := newMockedRenderer(t)
	httpmock.RegisterResponder("GET", staticBase+"page-1.html",
		httpmock.NewStringResponder(200, `<html><body><li class="next"><a href="page-2.html">next</a></li></body></html>`))
	httpmock.RegisterResponder("GET", staticBase+"page-2.html",
		httpmock.NewStringResponder(200, `<html><body><p id="second">second page</p></body></html>`))

	require.NoError(t, r.Navigate(staticBase+"page-1.html"))

	next, err := r.WaitForSelector("li.next > a", time.Second)
	require.NoError(t, err)
	require.NoError(t, next.ScrollIntoView())
	require.NoError(t, next.Click())

	html, err := r.Content()
	require.NoError(t, err)
	assert.Contains(t, html, "second page")
}

func TestStaticElementClickWithoutHref(t *testing.T) {
	r := newMockedRenderer(t)
	httpmock.RegisterResponder("GET", staticBase+"page-1.html",
		httpmock.NewStringResponder(200, `<html><body><li class="next"><a>next</a></li></body></html>`))

	require.NoError(t, r.Navigate(staticBase+"page-1.html"))

	next, err := r.WaitForSelector("li.next > a", time.Second)
	require.NoError(t, err)
	assert.Error(t, next.Click())
}
