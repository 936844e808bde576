package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"medisage-api/internal/utils/platformerrors"
)

// DefaultMaxImageBytes is the upload bound applied when none is configured.
const DefaultMaxImageBytes int64 = 10 * 1024 * 1024

var allowedImageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
	"image/heic": true,
}

func (o *Orchestrator) validateRequest(ctx context.Context, req any, emptyMessage string) error {
	if err := o.validate.Struct(req); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			emptyMessage, err, "a3f4c2d1-5b6e-4f70-8a91-b2c3d4e5f607")
	}
	return nil
}

// validateImage checks size and content type and returns the sniffed MIME type.
// The declared type must be image/* and the bytes must actually be an image.
func (o *Orchestrator) validateImage(ctx context.Context, req ImageQuery) (string, error) {
	invalid := func(message, code string) (string, error) {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, message, nil, code)
	}

	if len(req.Image) == 0 {
		return invalid("Image file is required", "c1d2e3f4-a5b6-4c7d-8e9f-0a1b2c3d4e08")
	}
	if int64(len(req.Image)) > o.maxImageBytes {
		return invalid(fmt.Sprintf("Image exceeds the %d MB limit", o.maxImageBytes/(1024*1024)), "d2e3f4a5-b6c7-4d8e-9f0a-1b2c3d4e5f09")
	}
	declared := strings.ToLower(strings.TrimSpace(req.MimeType))
	if declared != "" && !strings.HasPrefix(declared, "image/") {
		return invalid("Only image files are allowed", "e3f4a5b6-c7d8-4e9f-0a1b-2c3d4e5f6a10")
	}

	detected := mimetype.Detect(req.Image).String()
	if !allowedImageMIMEs[detected] {
		return invalid("Only image files are allowed", "e3f4a5b6-c7d8-4e9f-0a1b-2c3d4e5f6a10")
	}
	return detected, nil
}

type voiceShortcut struct {
	phrases []string
	reply   VoiceReply
}

var voiceShortcuts = []voiceShortcut{
	{
		phrases: []string{"check my symptoms", "symptom check"},
		reply: VoiceReply{
			Text:            "I'll help you check your symptoms. Could you describe them in detail?",
			SuggestedAction: ActionSymptomChecker,
		},
	},
	{
		phrases: []string{"scan medicine", "identify medicine"},
		reply: VoiceReply{
			Text:            "Medicine scanning requires a corporate tier subscription.",
			SuggestedAction: ActionUpgradePrompt,
		},
	},
}

// matchVoiceShortcut answers well known personal tier commands without a model call.
func matchVoiceShortcut(transcript string) *VoiceReply {
	lower := strings.ToLower(transcript)
	for _, shortcut := range voiceShortcuts {
		for _, phrase := range shortcut.phrases {
			if strings.Contains(lower, phrase) {
				reply := shortcut.reply
				return &reply
			}
		}
	}
	return nil
}
