package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_AllKinds(t *testing.T) {
	data := map[string]any{
		"URL":       "https://app.example.com/verify?token=abc",
		"OrderID":   "order-1",
		"Status":    "accepted",
		"PostTitle": "Embroidered kaftan",
	}

	for kind := range templateNames {
		html, text, err := render(kind, data)
		require.NoErrorf(t, err, "kind %s", kind)
		assert.NotEmptyf(t, html, "kind %s html", kind)
		assert.NotEmptyf(t, text, "kind %s text", kind)
	}
}

func TestRender_EscapesHTML(t *testing.T) {
	html, _, err := render(KindOrderConfirmation, map[string]any{
		"URL":       "https://app.example.com/orders/1",
		"OrderID":   "order-1",
		"PostTitle": "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRender_UnknownKind(t *testing.T) {
	_, _, err := render(Kind("carrier-pigeon"), nil)
	require.Error(t, err)
}

func TestRender_TextBodies(t *testing.T) {
	_, text, err := render(KindOrderStatusUpdate, map[string]any{
		"URL":     "https://app.example.com/orders/1",
		"OrderID": "order-1",
		"Status":  "accepted",
	})
	require.NoError(t, err)
	assert.Contains(t, text, "order-1")
	assert.Contains(t, text, "accepted")
}
