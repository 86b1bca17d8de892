package protocol

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecodeInbound verifies that each inbound kind decodes its fields and
// that bad payloads are reported with the matching sentinel.
func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Inbound
		wantErr error
	}{
		{name: "login", raw: `{"type":"login","name":"Alice"}`, want: Inbound{Type: TypeLogin, Name: "Alice"}},
		{name: "text", raw: `{"type":"text","text":"hi"}`, want: Inbound{Type: TypeText, Text: "hi"}},
		{name: "image", raw: `{"type":"image","text":"[\"a.png\"]"}`, want: Inbound{Type: TypeImage, Text: `["a.png"]`}},
		{name: "direct", raw: `{"type":"user-text","uid":"u1","content":"secret"}`, want: Inbound{Type: TypeUserText, UID: "u1", Content: "secret"}},
		{name: "clear", raw: `{"type":"system-clear-messages"}`, want: Inbound{Type: TypeClearMessages}},
		{name: "missing type", raw: `{"text":"hi"}`, wantErr: ErrMissingType},
		{name: "empty type", raw: `{"type":"","text":"hi"}`, wantErr: ErrMissingType},
		{name: "unknown fields", raw: `{"type":"text","text":"x","extra":1}`, want: Inbound{Type: TypeText, Text: "x"}},
		{name: "not json", raw: `hello`, wantErr: ErrMalformedFrame},
		{name: "array", raw: `[1,2]`, wantErr: ErrMalformedFrame},
		{name: "wrong field type", raw: `{"type":"text","text":42}`, wantErr: ErrMalformedFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInbound([]byte(tt.raw))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestRoomMessageWireShape checks that contentType only appears for image sets.
func TestRoomMessageWireShape(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

	text := ChatMessage{ID: "m1", Kind: KindText, AuthorID: "u1", AuthorName: "Alice", Body: "hi", SentAt: at}
	payload, err := NewRoomMessage(text).Marshal()
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"room-message","data":{"name":"Alice","uid":"u1","content":"hi","time":"2024-03-09 14:05:07","mid":"m1"}}`,
		string(payload))

	image := text
	image.Kind = KindImageSet
	image.Body = `["a.png","b.png"]`
	payload, err = NewRoomMessage(image).Marshal()
	require.NoError(t, err)

	var decoded struct {
		Data RoomMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "image", decoded.Data.ContentType)
	assert.Equal(t, `["a.png","b.png"]`, decoded.Data.Content)
}

// TestLoginSuccessHistory verifies the history array is never null and keeps order.
func TestLoginSuccessHistory(t *testing.T) {
	payload, err := NewLoginSuccess("u1", nil).Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"login-success","data":{"uid":"u1","history":[]}}`, string(payload))

	history := []ChatMessage{
		{ID: "a", Kind: KindText, Body: "first"},
		{ID: "b", Kind: KindText, Body: "second"},
	}
	env := NewLoginSuccess("u2", history)
	data, ok := env.Data.(LoginSuccess)
	require.True(t, ok)
	require.Len(t, data.History, 2)
	assert.Equal(t, "a", data.History[0].MID)
	assert.Equal(t, "b", data.History[1].MID)
}

// TestSystemEnvelopes covers the envelopes without chat payloads.
func TestSystemEnvelopes(t *testing.T) {
	payload, err := NewClearMessages().Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"system-clear-messages"}`, string(payload))

	payload, err = NewUserList(nil).Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"system-user-list","data":[]}`, string(payload))

	payload, err = NewSystemLogin("Bob").Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(payload), "Bob")
	assert.Contains(t, string(payload), TypeSystemLogin)

	payload, err = NewSystemLogout("Bob").Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(payload), TypeSystemLogout)
}

// TestDirectMessageNaming checks the recipient copy uses "from" and the echo uses "name".
func TestDirectMessageNaming(t *testing.T) {
	payload, err := NewDirectMessage("Alice", "u1", "secret", "t").Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"user-message","data":{"from":"Alice","uid":"u1","content":"secret","time":"t"}}`, string(payload))

	payload, err = NewDirectEcho("Alice", "u1", "secret", "t").Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"user-message","data":{"name":"Alice","uid":"u1","content":"secret","time":"t"}}`, string(payload))
}
