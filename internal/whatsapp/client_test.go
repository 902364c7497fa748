package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karibuhq/wabroadcast-backend/internal/model"
)

func TestSendTextMessage(t *testing.T) {
	var captured sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/555001/messages", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []map[string]string{{"id": "wamid.ABC"}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "555001", "token-123")
	res, err := client.Send(context.Background(), "+254711000001", Message{
		Type:    model.MessageTypeText,
		Content: "Hello",
	})
	require.NoError(t, err)

	assert.Equal(t, "wamid.ABC", res.MessageID)
	assert.False(t, res.Delivered)
	assert.Equal(t, "whatsapp", captured.MessagingProduct)
	assert.Equal(t, "+254711000001", captured.To)
	require.NotNil(t, captured.Text)
	assert.Equal(t, "Hello", captured.Text.Body)
}

func TestSendImageMessage(t *testing.T) {
	var captured sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []map[string]string{{"id": "wamid.IMG"}},
		})
	}))
	defer srv.Close()

	link := "https://cdn.example.com/pic.jpg"
	client := NewClient(srv.URL, "555001", "token-123")
	_, err := client.Send(context.Background(), "+254711000001", Message{
		Type:     model.MessageTypeImage,
		Content:  "caption here",
		MediaURL: &link,
	})
	require.NoError(t, err)

	require.NotNil(t, captured.Image)
	assert.Equal(t, link, captured.Image.Link)
	assert.Equal(t, "caption here", captured.Image.Caption)
}

func TestSendImageWithoutMediaURLFails(t *testing.T) {
	client := NewClient("http://unused", "555001", "token-123")
	_, err := client.Send(context.Background(), "+254711000001", Message{
		Type:    model.MessageTypeImage,
		Content: "caption",
	})
	var sendErr *SendError
	assert.ErrorAs(t, err, &sendErr)
}

func TestSendDecodesGraphError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message": "Recipient phone number not valid",
				"code":    131026,
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "555001", "token-123")
	_, err := client.Send(context.Background(), "bogus", Message{Type: model.MessageTypeText, Content: "x"})

	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, http.StatusBadRequest, sendErr.StatusCode)
	assert.Equal(t, 131026, sendErr.Code)
	assert.Contains(t, sendErr.Reason, "not valid")
}

func TestSendHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(srv.URL, "555001", "token-123")
	_, err := client.Send(ctx, "+254711000001", Message{Type: model.MessageTypeText, Content: "x"})
	assert.Error(t, err)
}
