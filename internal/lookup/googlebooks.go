// Package lookup queries an external bibliographic service to populate
// catalog entries from an ISBN.
package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bibliogo/apiserver/types"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

// LookupError reports that the bibliographic service was unreachable or
// returned no results for an ISBN.
type LookupError struct {
	ISBN string
	Err  error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lookup for ISBN %s failed: %v", e.ISBN, e.Err)
	}
	return fmt.Sprintf("lookup for ISBN %s failed: no results", e.ISBN)
}

func (e *LookupError) Unwrap() error { return e.Err }

// GoogleBooksClient queries the Google Books volumes API.
type GoogleBooksClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGoogleBooksClient constructs a client with a fail-fast timeout.
func NewGoogleBooksClient() *GoogleBooksClient {
	return &GoogleBooksClient{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewGoogleBooksClientWithBaseURL constructs a client against a custom
// endpoint. Used by tests.
func NewGoogleBooksClientWithBaseURL(baseURL string) *GoogleBooksClient {
	return &GoogleBooksClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type volumesResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title         string   `json:"title"`
			Authors       []string `json:"authors"`
			Publisher     string   `json:"publisher"`
			PublishedDate string   `json:"publishedDate"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// ByISBN builds a Book from the first match for the ISBN. Transport
// failures and empty result sets both fail with *LookupError; missing
// metadata fields default to empty strings, and only the first four
// characters of the publication date are kept as the year.
func (c *GoogleBooksClient) ByISBN(ctx context.Context, isbn string) (types.Book, error) {
	reqURL := fmt.Sprintf("%s?q=%s", c.baseURL, url.QueryEscape("isbn:"+isbn))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.Book{}, &LookupError{ISBN: isbn, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.Book{}, &LookupError{ISBN: isbn, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Book{}, &LookupError{ISBN: isbn, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var volumes volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&volumes); err != nil {
		return types.Book{}, &LookupError{ISBN: isbn, Err: err}
	}
	if volumes.TotalItems == 0 || len(volumes.Items) == 0 {
		return types.Book{}, &LookupError{ISBN: isbn}
	}

	info := volumes.Items[0].VolumeInfo
	author := ""
	if len(info.Authors) > 0 {
		author = info.Authors[0]
	}
	year := info.PublishedDate
	if len(year) > 4 {
		year = year[:4]
	}

	return types.Book{
		ISBN:      isbn,
		Title:     info.Title,
		Author:    author,
		Publisher: info.Publisher,
		Year:      year,
	}, nil
}
