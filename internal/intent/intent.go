// Package intent turns a spoken or typed command into a structured website
// edit.  The pipeline has three steps: transcribe the audio with a hosted
// speech-to-text service, ask a hosted generative-text service to map the
// text onto one editable field, and validate the reply into an Intent.
package intent

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/iliyamo/vaani/internal/model"
)

// MaxAudioBytes caps uploaded recordings at 25 MiB.
const MaxAudioBytes = 25 << 20

var (
	ErrPayloadTooLarge      = errors.New("audio file too large (max 25MB)")
	ErrMissingCredentials   = errors.New("missing service credentials")
	ErrTranscriptionFailed  = errors.New("transcription failed")
	ErrInterpretationFailed = errors.New("interpretation failed")
)

// Kind tags the variant of an Intent.
type Kind string

const (
	KindShopName     Kind = model.FieldShopName
	KindDescription  Kind = model.FieldDescription
	KindAnnouncement Kind = model.FieldAnnouncement
	KindUnknown      Kind = "unknown"
)

// Intent is the validated interpretation of a command: one of ShopName,
// Description or Announcement carrying the new value, or Unknown.
type Intent struct {
	Kind    Kind
	Content string
}

// Unknown is the intent for anything that cannot be mapped to a field.
var Unknown = Intent{Kind: KindUnknown}

// Field returns the content field this intent edits; ok is false for Unknown.
func (i Intent) Field() (field string, ok bool) {
	switch i.Kind {
	case KindShopName, KindDescription, KindAnnouncement:
		return string(i.Kind), true
	}
	return "", false
}

// ParseReply validates the raw text returned by the generative service.  It
// never fails: fenced or bare JSON with a recognised intent yields that
// intent; anything else yields Unknown with empty content.
func ParseReply(raw string) Intent {
	body := stripFences(raw)

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		return Unknown
	}
	rawIntent, ok1 := obj["intent"]
	rawContent, ok2 := obj["content"]
	if !ok1 || !ok2 {
		return Unknown
	}

	var kind string
	if err := json.Unmarshal(rawIntent, &kind); err != nil {
		return Unknown
	}
	var content *string
	if err := json.Unmarshal(rawContent, &content); err != nil {
		return Unknown
	}

	in := Intent{Kind: Kind(kind)}
	if _, ok := in.Field(); !ok {
		return Unknown
	}
	if content != nil {
		in.Content = *content
	}
	return in
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.Contains(s[:nl], "{") {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Actions reported in a Result.
const (
	ActionUpdate  = "update"
	ActionUnknown = "unknown"
	ActionError   = "error"
)

// Result is the outcome of one command.  Err keeps the underlying error for
// status mapping and is never serialised.
type Result struct {
	Transcription string `json:"transcription"`
	Action        string `json:"action"`
	Field         string `json:"field"`
	Value         string `json:"value"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`

	Err error `json:"-"`
}

func resultFor(transcription string, in Intent) Result {
	res := Result{Transcription: transcription, Action: ActionUnknown, Success: true}
	if field, ok := in.Field(); ok {
		res.Action = ActionUpdate
		res.Field = field
		res.Value = in.Content
	}
	return res
}

func failed(transcription string, err error) Result {
	return Result{
		Transcription: transcription,
		Action:        ActionError,
		Success:       false,
		Error:         err.Error(),
		Err:           err,
	}
}
