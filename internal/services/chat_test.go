package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/config"
)

func TestReplyRejectsBlankMessage(t *testing.T) {
	svc := NewChatService(&config.Config{})

	_, err := svc.Reply("")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.Reply("   \n ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestReplyCannedTopics(t *testing.T) {
	svc := NewChatService(&config.Config{}) // no API key

	reply, err := svc.Reply("How do I buy a ticket?")
	require.NoError(t, err)
	assert.Contains(t, reply, "Events & Tickets")

	reply, err = svc.Reply("where is the RADIO schedule")
	require.NoError(t, err)
	assert.Contains(t, reply, "Listen Live")

	reply, err = svc.Reply("can I watch tv here")
	require.NoError(t, err)
	assert.Contains(t, reply, "KABS TV")

	reply, err = svc.Reply("how do I join the community")
	require.NoError(t, err)
	assert.Contains(t, reply, "Community")

	reply, err = svc.Reply("tell me about bulk sms pricing")
	require.NoError(t, err)
	assert.Contains(t, reply, "Bulk SMS")

	reply, err = svc.Reply("hello")
	require.NoError(t, err)
	assert.Contains(t, reply, "What are you trying to do today?")
}

func TestReplyForwardsToOpenAI(t *testing.T) {
	var gotReq chatCompletionRequest
	var gotAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "  Hello from Kabs  "}},
			},
		})
	}))
	defer upstream.Close()

	svc := NewChatService(&config.Config{OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-4o-mini"})
	svc.endpoint = upstream.URL

	reply, err := svc.Reply("what events are on?")
	require.NoError(t, err)
	assert.Equal(t, "Hello from Kabs", reply)
	assert.Equal(t, "Bearer sk-test", gotAuth)

	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	assert.Equal(t, 0.4, gotReq.Temperature)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "what events are on?", gotReq.Messages[1].Content)
}

func TestReplyUpstreamErrorSurfaces(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	svc := NewChatService(&config.Config{OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-4o-mini"})
	svc.endpoint = upstream.URL

	_, err := svc.Reply("hello events")
	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Contains(t, upstreamErr.Error(), "AI request failed")
}

func TestReplyTransportErrorFallsBack(t *testing.T) {
	svc := NewChatService(&config.Config{OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-4o-mini"})
	svc.endpoint = "http://127.0.0.1:1" // nothing listens here

	reply, err := svc.Reply("bulk sms help")
	require.NoError(t, err)
	assert.Contains(t, reply, "Bulk SMS")
}

func TestReplyEmptyCompletionFallsBack(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer upstream.Close()

	svc := NewChatService(&config.Config{OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-4o-mini"})
	svc.endpoint = upstream.URL

	reply, err := svc.Reply("radio please")
	require.NoError(t, err)
	assert.Contains(t, reply, "Radio page")
}
