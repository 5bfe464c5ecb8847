package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vaani/internal/intent"
	"github.com/iliyamo/vaani/internal/logger"
	"github.com/iliyamo/vaani/internal/middleware"
	"github.com/iliyamo/vaani/internal/model"
	"github.com/iliyamo/vaani/internal/queue"
	"github.com/iliyamo/vaani/internal/repository"
)

// CommandHandler turns voice and text commands into website edits.
type CommandHandler struct {
	Resolver *intent.Resolver
	Sites    *repository.WebsiteRepo
	Events   EventPublisher
}

func NewCommandHandler(r *intent.Resolver, s *repository.WebsiteRepo, ev EventPublisher) *CommandHandler {
	return &CommandHandler{Resolver: r, Sites: s, Events: ev}
}

type textReq struct {
	Text string `json:"text"`
}

// commandResp is the JSON answer of both command endpoints.
type commandResp struct {
	intent.Result
	Website *model.Website `json:"website,omitempty"`
	Message string         `json:"message,omitempty"`
}

// maxUploadBytes leaves room for the multipart framing around the audio.
const maxUploadBytes = intent.MaxAudioBytes + 1<<20

// ProcessAudio accepts a multipart upload in the "audio" field.
func (h *CommandHandler) ProcessAudio(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}

	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxUploadBytes)
	fh, err := c.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return c.JSON(http.StatusRequestEntityTooLarge, tooLargeResp())
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No audio file provided"})
	}
	if fh.Filename == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No audio file selected"})
	}
	if fh.Size > intent.MaxAudioBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, tooLargeResp())
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable audio file"})
	}
	defer f.Close()
	audio, err := io.ReadAll(io.LimitReader(f, intent.MaxAudioBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable audio file"})
	}

	res := h.Resolver.ResolveAudio(req.Context(), audio, fh.Header.Get("Content-Type"))
	if errors.Is(res.Err, intent.ErrPayloadTooLarge) {
		return c.JSON(http.StatusRequestEntityTooLarge, commandResp{Result: res})
	}
	return h.apply(c, id, res, queue.SourceVoice)
}

// ProcessText accepts {"text": "..."}; the text is echoed as the
// transcription.
func (h *CommandHandler) ProcessText(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}
	var req textReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No text provided"})
	}

	res := h.Resolver.ResolveText(c.Request().Context(), text)
	return h.apply(c, id, res, queue.SourceText)
}

// apply persists an update intent and writes the response.  Resolver
// failures and unknown commands are answered with 200; store failures
// with 500.
func (h *CommandHandler) apply(c echo.Context, id model.Identity, res intent.Result, source string) error {
	resp := commandResp{Result: res}
	if !res.Success || res.Action != intent.ActionUpdate {
		return c.JSON(http.StatusOK, resp)
	}

	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	patch, ok := model.PatchField(res.Field, res.Value)
	if !ok {
		resp.Success = false
		resp.Error = "Invalid field: " + res.Field
		return c.JSON(http.StatusOK, resp)
	}
	if err := h.Sites.ApplyPartialUpdate(ctx, id.UserID, patch); err != nil {
		log.Error("apply command failed", "field", res.Field, "err", err)
		resp.Success = false
		resp.Error = "Failed to save changes to database"
		return c.JSON(http.StatusInternalServerError, resp)
	}
	site, err := h.Sites.Get(ctx, id.UserID)
	if err != nil {
		log.Error("reload website failed", "err", err)
		resp.Success = false
		resp.Error = "Failed to load updated website"
		return c.JSON(http.StatusInternalServerError, resp)
	}

	resp.Website = &site
	resp.Message = "Successfully updated " + res.Field
	log.Info("website updated by command", "field", res.Field, "source", source)

	publishUpdate(c, h.Events, queue.WebsiteUpdatedEvent{
		UserID:   id.UserID,
		Username: id.Username,
		Source:   source,
		Fields:   []string{res.Field},
		Value:    res.Value,
	})
	return c.JSON(http.StatusOK, resp)
}

func tooLargeResp() commandResp {
	return commandResp{Result: intent.Result{
		Action:  intent.ActionError,
		Success: false,
		Error:   intent.ErrPayloadTooLarge.Error(),
	}}
}
