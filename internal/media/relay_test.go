package media

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayClient_Upload(t *testing.T) {
	payload := []byte("fake-image-bytes")

	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Client-ID test-client", r.Header.Get("Authorization"))

			require.NoError(t, r.ParseForm())
			decoded, err := base64.StdEncoding.DecodeString(r.PostFormValue("image"))
			require.NoError(t, err)
			assert.Equal(t, payload, decoded)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"data":{"link":"https://i.example/abc.png"}}`))
		}))
		defer srv.Close()

		client := NewRelayClient(srv.URL, "test-client")
		link, err := client.Upload(context.Background(), payload)
		require.NoError(t, err)
		assert.Equal(t, "https://i.example/abc.png", link)
	})

	t.Run("Non-2xx Is Failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := NewRelayClient(srv.URL, "test-client")
		_, err := client.Upload(context.Background(), payload)
		assert.Error(t, err)
	})

	t.Run("Malformed JSON Is Failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not-json`))
		}))
		defer srv.Close()

		client := NewRelayClient(srv.URL, "test-client")
		_, err := client.Upload(context.Background(), payload)
		assert.Error(t, err)
	})

	t.Run("Missing Link Is Failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
		}))
		defer srv.Close()

		client := NewRelayClient(srv.URL, "test-client")
		_, err := client.Upload(context.Background(), payload)
		assert.Error(t, err)
	})

	t.Run("Missing Client ID", func(t *testing.T) {
		client := NewRelayClient("http://unused.example", "")
		_, err := client.Upload(context.Background(), payload)
		assert.Error(t, err)
	})

	// One attempt per upload: a failing host is hit exactly once
	t.Run("No Retry", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewRelayClient(srv.URL, "test-client")
		_, err := client.Upload(context.Background(), payload)
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
