package notifier

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendCallbackSignsBody(t *testing.T) {
	body := []byte(`{"order_id":"000000000042","status":"PAID"}`)

	var gotBody []byte
	var gotSignature string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSignature = r.Header.Get(SignatureHeader)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewCallbackNotifier(srv.URL, "backoffice-secret", time.Second)
	require.NoError(t, n.SendCallback(context.Background(), body))

	assert.Equal(t, body, gotBody)
	assert.True(t, Verify([]byte("backoffice-secret"), gotBody, gotSignature))
	assert.False(t, Verify([]byte("other-secret"), gotBody, gotSignature))
}

func TestSendCallbackNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewCallbackNotifier(srv.URL, "s", time.Second)
	err := n.SendCallback(context.Background(), []byte(`{}`))
	assert.ErrorContains(t, err, "502")
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	secret := []byte("k")
	sig := Sign(secret, []byte(`{"amount_minor":100}`))

	assert.True(t, Verify(secret, []byte(`{"amount_minor":100}`), sig))
	assert.False(t, Verify(secret, []byte(`{"amount_minor":101}`), sig))
	assert.False(t, Verify(secret, []byte(`{"amount_minor":100}`), "not base64!"))
}
