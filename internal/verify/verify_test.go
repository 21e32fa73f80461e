package verify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/event-site-finder/internal/fetch"
	"github.com/jonathan/event-site-finder/internal/types"
)

// fakeClient serves canned responses per URL.
type fakeClient struct {
	contentType string
	existStatus int
	pageStatus  int
	html        string
	existErr    error
	pageErr     error
}

func (f *fakeClient) Exists(_ context.Context, url string) (*fetch.Meta, error) {
	if f.existErr != nil {
		return nil, f.existErr
	}
	return &fetch.Meta{URL: url, ContentType: f.contentType, StatusCode: f.existStatus}, nil
}

func (f *fakeClient) Page(_ context.Context, url string) (*fetch.Result, error) {
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	return &fetch.Result{URL: url, HTML: f.html, StatusCode: f.pageStatus}, nil
}

// pad grows page content past the minimum-size floor without adding any
// vocabulary the heuristics react to.
func pad(content string) string {
	return content + strings.Repeat(" lorem ipsum dolor sit amet consectetur", 200)
}

func goodClient(html string) *fakeClient {
	return &fakeClient{
		contentType: "text/html; charset=utf-8",
		existStatus: http.StatusOK,
		pageStatus:  http.StatusOK,
		html:        html,
	}
}

var showEvent = types.Event{
	ID:           "evt-1",
	Name:         "The Glass Garden London",
	Descriptions: []string{"An immersive light installation in a Victorian greenhouse"},
	Tags:         []string{"exhibition"},
}

const goodPage = `<html><body>
<h1>The Glass Garden — Official Website</h1>
<p>An immersive light installation set in a Victorian greenhouse. Opening times 10am-6pm.</p>
</body></html>`

func TestVerify_Accepts(t *testing.T) {
	v := New(goodClient(pad(goodPage)), nil, "")
	assert.True(t, v.Verify(context.Background(), "https://glassgarden.co.uk/visit", showEvent))
}

func TestVerify_RejectsNonHTML(t *testing.T) {
	client := goodClient(pad(goodPage))
	client.contentType = "application/pdf"
	v := New(client, nil, "")
	assert.False(t, v.Verify(context.Background(), "https://glassgarden.co.uk", showEvent))
}

func TestVerify_RejectsExistenceFailure(t *testing.T) {
	v := New(&fakeClient{existErr: errors.New("dial timeout")}, nil, "")
	assert.False(t, v.Verify(context.Background(), "https://glassgarden.co.uk", showEvent))
}

func TestVerify_RejectsNonSuccessExistence(t *testing.T) {
	client := goodClient(pad(goodPage))
	client.existStatus = http.StatusNotFound
	v := New(client, nil, "")
	assert.False(t, v.Verify(context.Background(), "https://glassgarden.co.uk", showEvent))
}

func TestVerify_RejectsFetchFailure(t *testing.T) {
	client := goodClient("")
	client.pageErr = errors.New("connection reset")
	v := New(client, nil, "")
	assert.False(t, v.Verify(context.Background(), "https://glassgarden.co.uk", showEvent))
}

func TestVerify_RejectsSmallContent(t *testing.T) {
	v := New(goodClient(goodPage), nil, "") // unpadded, well under the size floor
	assert.False(t, v.Verify(context.Background(), "https://glassgarden.co.uk", showEvent))
}

func TestVerify_RejectsWhenNameAbsent(t *testing.T) {
	page := pad(`<html><body><h1>Something Else Entirely — Official Website</h1>
<p>A greenhouse installation. Opening times 10am.</p></body></html>`)
	v := New(goodClient(page), nil, "")
	ev := showEvent
	ev.Name = "Quixotic Zephyr"
	assert.False(t, v.Verify(context.Background(), "https://glassgarden.co.uk", ev))
}

func TestVerify_RejectsWithoutDescriptionMatch(t *testing.T) {
	// Page carries the name and official vocabulary but nothing from the
	// event description, so only 2 of 3 content signals hold.
	page := pad(`<html><body><h1>The Glass Garden — Official Website</h1>
<p>Tickets on sale now.</p></body></html>`)
	v := New(goodClient(page), nil, "")
	assert.False(t, v.Verify(context.Background(), "https://glassgarden.co.uk", showEvent))
}

func TestVerify_RejectsAggregatorVocabulary(t *testing.T) {
	page := pad(`<html><body><h1>The Glass Garden — Official Website</h1>
<p>An immersive light installation in a Victorian greenhouse.</p>
<p>Compare ticket prices from multiple sellers.</p></body></html>`)
	v := New(goodClient(page), nil, "")
	assert.False(t, v.Verify(context.Background(), "https://glassgarden.co.uk", showEvent))
}

func TestVerify_FilmTheatreVeto(t *testing.T) {
	page := pad(`<html><body><h1>Dune — Official Website</h1>
<p>The desert epic returns to the big screen. Now also a musical on the West End.</p>
<p>Opening times vary by venue.</p></body></html>`)
	v := New(goodClient(page), nil, "")
	ev := types.Event{
		ID:           "evt-2",
		Name:         "Dune",
		Descriptions: []string{"The desert epic returns to the big screen"},
		Tags:         []string{"film"},
	}
	assert.False(t, v.Verify(context.Background(), "https://dunemovie.com", ev))
}

func TestVerify_HostMismatchIsAdvisoryOnly(t *testing.T) {
	// Host bears no resemblance to the event name; must still pass.
	v := New(goodClient(pad(goodPage)), nil, "")
	assert.True(t, v.Verify(context.Background(), "https://unrelated-brand.example.com", showEvent))
}

func TestVerify_StripsCityFromName(t *testing.T) {
	// Page mentions "glass" but never "london"; the city word must not be
	// required to match.
	page := pad(`<html><body><h1>Glass Garden — Official Website</h1>
<p>An immersive light installation in a Victorian greenhouse.</p></body></html>`)
	v := New(goodClient(page), nil, "")
	ev := showEvent
	ev.Name = "London Glass Garden"
	assert.True(t, v.Verify(context.Background(), "https://glassgarden.co.uk", ev))
}
