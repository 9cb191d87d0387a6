package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gokatarajesh/triviago/internal/httpclient"
)

// Caller is the part of httpclient.Client the OpenTDB client needs.
type Caller interface {
	Call(ctx context.Context, req httpclient.Request) httpclient.Envelope
}

// OpenTDBClient fetches categories and questions from the Open Trivia DB (no API key).
type OpenTDBClient struct {
	baseURL string
	api     Caller
}

func NewOpenTDBClient(baseURL string, api Caller) *OpenTDBClient {
	if baseURL == "" {
		baseURL = "https://opentdb.com"
	}
	return &OpenTDBClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		api:     api,
	}
}

type OpenTDBCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type OpenTDBQuestion struct {
	Category        string   `json:"category"`
	Type            string   `json:"type"`
	Difficulty      string   `json:"difficulty"`
	Question        string   `json:"question"`
	CorrectAnswer   string   `json:"correct_answer"`
	IncorrectAnswer []string `json:"incorrect_answers"`
}

type openTDBResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []OpenTDBQuestion `json:"results"`
}

type categoriesResponse struct {
	TriviaCategories []OpenTDBCategory `json:"trivia_categories"`
}

// OpenTDB response codes.
const (
	CodeSuccess          = 0
	CodeNoResults        = 1
	CodeInvalidParameter = 2
	CodeTokenNotFound    = 3
	CodeTokenEmpty       = 4
	CodeRateLimit        = 5
)

var responseMessages = map[int]string{
	CodeNoResults:        "not enough questions for this query",
	CodeInvalidParameter: "invalid parameter",
	CodeTokenNotFound:    "session token not found",
	CodeTokenEmpty:       "session token has returned all questions",
	CodeRateLimit:        "rate limited, wait a few seconds",
}

// ResponseCodeError is a non-zero response_code in an otherwise successful
// reply. It unwraps to a *httpclient.RemoteError.
type ResponseCodeError struct {
	Code int
}

func (e *ResponseCodeError) Error() string {
	msg, ok := responseMessages[e.Code]
	if !ok {
		msg = "unexpected response"
	}
	return fmt.Sprintf("opentdb: %s (response code %d)", msg, e.Code)
}

func (e *ResponseCodeError) Unwrap() error {
	return &httpclient.RemoteError{Status: http.StatusOK, Message: e.Error()}
}

// Categories lists every category OpenTDB knows.
func (c *OpenTDBClient) Categories(ctx context.Context) ([]OpenTDBCategory, error) {
	env := c.api.Call(ctx, httpclient.Request{
		URL:    c.baseURL + "/api_category.php",
		Method: http.MethodGet,
	})
	var payload categoriesResponse
	if err := env.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.TriviaCategories, nil
}

// Fetch returns up to amount questions. category 0 and empty difficulty or
// qType mean "any".
func (c *OpenTDBClient) Fetch(ctx context.Context, amount, category int, difficulty, qType string) ([]OpenTDBQuestion, error) {
	values := url.Values{}
	values.Set("amount", strconv.Itoa(amount))
	if category > 0 {
		values.Set("category", strconv.Itoa(category))
	}
	if difficulty != "" {
		values.Set("difficulty", difficulty)
	}
	if qType != "" {
		values.Set("type", qType)
	}

	env := c.api.Call(ctx, httpclient.Request{
		URL:    c.baseURL + "/api.php",
		Method: http.MethodGet,
		Query:  values,
	})
	var payload openTDBResponse
	if err := env.Decode(&payload); err != nil {
		return nil, err
	}
	if payload.ResponseCode != CodeSuccess {
		return nil, &ResponseCodeError{Code: payload.ResponseCode}
	}
	return payload.Results, nil
}
