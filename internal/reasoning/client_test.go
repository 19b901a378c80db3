package reasoning

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/botornot-chat/botornot/internal/services/credential"
	"github.com/botornot-chat/botornot/internal/testutil"
)

type ClientSuite struct {
	suite.Suite

	requests []completionRequest
	auth     []string
	respond  func(w http.ResponseWriter)
	server   *httptest.Server
	client   *Client
}

func (s *ClientSuite) SetupTest() {
	s.requests = nil
	s.auth = nil
	s.respond = func(w http.ResponseWriter) {
		s.writeContent(w, "hello there")
	}

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/chat/completions", r.URL.Path)
		s.auth = append(s.auth, r.Header.Get("Authorization"))

		var req completionRequest
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
		s.requests = append(s.requests, req)

		s.respond(w)
	}))

	pool, err := credential.NewPool([]string{"key-a", "key-b"})
	s.Require().NoError(err)

	s.client = NewClient(Config{
		BaseURL:        s.server.URL,
		GenerateModel:  "gen-model",
		RateModel:      "rate-model",
		RequestTimeout: 5 * time.Second,
	}, pool, testutil.NopLogger())
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) writeContent(w http.ResponseWriter, content string) {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	s.Require().NoError(json.NewEncoder(w).Encode(resp))
}

func (s *ClientSuite) TestGenerate() {
	s.respond = func(w http.ResponseWriter) {
		s.writeContent(w, "  sounds fake but ok  ")
	}

	line, err := s.client.Generate(context.Background(), GenerateRequest{
		BotName:   "sam",
		Persona:   "You are sam.",
		MaxTokens: 50,
	})
	s.Require().NoError(err)
	s.Equal("sounds fake but ok", line)

	s.Require().Len(s.requests, 1)
	s.Equal("gen-model", s.requests[0].Model)
	s.Equal(50, s.requests[0].MaxTokens)
	s.Nil(s.requests[0].ResponseFormat)
}

func (s *ClientSuite) TestCredentialsRotatePerRequest() {
	_, err := s.client.Generate(context.Background(), GenerateRequest{BotName: "sam"})
	s.Require().NoError(err)
	_, err = s.client.Generate(context.Background(), GenerateRequest{BotName: "sam"})
	s.Require().NoError(err)
	_, err = s.client.Generate(context.Background(), GenerateRequest{BotName: "sam"})
	s.Require().NoError(err)

	s.Equal([]string{"Bearer key-a", "Bearer key-b", "Bearer key-a"}, s.auth)
}

func (s *ClientSuite) TestRate() {
	s.respond = func(w http.ResponseWriter) {
		s.writeContent(w, `{"maria": 5, "jake": 2}`)
	}

	ratings, err := s.client.Rate(context.Background(), RateRequest{
		BotName:    "sam",
		Candidates: []string{"maria", "jake"},
	})
	s.Require().NoError(err)
	s.Equal(map[string]int{"maria": 5, "jake": 2}, ratings)

	s.Require().Len(s.requests, 1)
	s.Equal("rate-model", s.requests[0].Model)
	s.Require().NotNil(s.requests[0].ResponseFormat)
	s.Equal("json_object", s.requests[0].ResponseFormat.Type)
}

func (s *ClientSuite) TestRateStripsCodeFences() {
	s.respond = func(w http.ResponseWriter) {
		s.writeContent(w, "```json\n{\"maria\": 3}\n```")
	}

	ratings, err := s.client.Rate(context.Background(), RateRequest{BotName: "sam"})
	s.Require().NoError(err)
	s.Equal(map[string]int{"maria": 3}, ratings)
}

func (s *ClientSuite) TestRateMalformedContent() {
	s.respond = func(w http.ResponseWriter) {
		s.writeContent(w, "everyone seems pretty human to me!")
	}

	_, err := s.client.Rate(context.Background(), RateRequest{BotName: "sam"})
	s.Error(err)
}

func (s *ClientSuite) TestServerError() {
	s.respond = func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded"}}`))
	}

	_, err := s.client.Generate(context.Background(), GenerateRequest{BotName: "sam"})
	s.Require().Error(err)
	s.Contains(err.Error(), "429")
}

func (s *ClientSuite) TestErrorPayloadWithOKStatus() {
	s.respond = func(w http.ResponseWriter) {
		_, _ = w.Write([]byte(`{"error": {"message": "model overloaded"}}`))
	}

	_, err := s.client.Generate(context.Background(), GenerateRequest{BotName: "sam"})
	s.Require().Error(err)
	s.Contains(err.Error(), "model overloaded")
}

func (s *ClientSuite) TestNoChoices() {
	s.respond = func(w http.ResponseWriter) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}

	_, err := s.client.Generate(context.Background(), GenerateRequest{BotName: "sam"})
	s.Error(err)
}

func (s *ClientSuite) TestContextCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.client.Generate(ctx, GenerateRequest{BotName: "sam"})
	s.Error(err)
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}
