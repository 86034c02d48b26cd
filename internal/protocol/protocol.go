// Package protocol defines the JSON messages exchanged on a session websocket.
package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Message types.
const (
	TypeImage                 = "image"
	TypeConnectionEstablished = "connection_established"
	TypeSignDetected          = "sign_detected"
	TypeError                 = "error"
)

// Error codes carried by *Error. Only Message is sent to clients.
const (
	CodeBadRequest  = "bad_request"
	CodeUnsupported = "unsupported"
	CodeBadPayload  = "bad_payload"
)

// Error is a decode failure. Message is the exact text reported to the client.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func badRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Message: message}
}

// BadPayload reports a frame payload that could not be turned into an image.
func BadPayload(cause error) *Error {
	return &Error{Code: CodeBadPayload, Message: "Unable to decode image: " + cause.Error()}
}

// ImageMessage is the only inbound message type.
type ImageMessage struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// DecodeClientMessage parses one inbound frame. Any failure is an *Error
// whose Message is ready to be sent back.
func DecodeClientMessage(data []byte) (ImageMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return ImageMessage{}, badRequest("Invalid message format")
	}

	typ := rawText(fields["type"])
	if typ != TypeImage {
		return ImageMessage{}, &Error{
			Code:    CodeUnsupported,
			Message: fmt.Sprintf("Unsupported message type: %s", typ),
		}
	}

	var payload string
	if raw, ok := fields["data"]; ok {
		if err := json.Unmarshal(raw, &payload); err != nil {
			payload = ""
		}
	}
	if strings.TrimSpace(payload) == "" {
		return ImageMessage{}, badRequest("Missing or empty 'data' field in image message")
	}

	return ImageMessage{Type: typ, Data: payload}, nil
}

// rawText renders a JSON value for an error message: strings unquoted,
// anything else verbatim, absent as empty.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// DecodeImagePayload turns the data field of an image message into raw
// image bytes. A data URI prefix and embedded whitespace are ignored,
// missing padding is restored and the URL-safe alphabet is accepted.
func DecodeImagePayload(data string) ([]byte, error) {
	s := data
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	s = strings.Join(strings.Fields(s), "")

	enc := base64.StdEncoding
	if strings.ContainsAny(s, "-_") {
		enc = base64.URLEncoding
	}

	b, err := enc.DecodeString(FixPadding(s))
	if err != nil {
		return nil, BadPayload(err)
	}
	if len(b) == 0 {
		return nil, BadPayload(fmt.Errorf("empty payload"))
	}
	return b, nil
}

// FixPadding appends the '=' characters needed to make len(s) a multiple of four.
func FixPadding(s string) string {
	if n := len(s) % 4; n != 0 {
		return s + strings.Repeat("=", 4-n)
	}
	return s
}

// ServerMessage is any outbound message.
type ServerMessage struct {
	Type    string `json:"type"`
	Sign    string `json:"sign,omitempty"`
	Message string `json:"message,omitempty"`
}

func ConnectionEstablished() ServerMessage {
	return ServerMessage{Type: TypeConnectionEstablished}
}

func SignDetected(sign string) ServerMessage {
	return ServerMessage{Type: TypeSignDetected, Sign: sign}
}

func ErrorMessage(message string) ServerMessage {
	return ServerMessage{Type: TypeError, Message: message}
}

// ErrorFor converts err to an outbound error. Decode errors keep their text.
func ErrorFor(err error) ServerMessage {
	return ErrorMessage(err.Error())
}
