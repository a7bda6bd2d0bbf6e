// Package captcha provides a function tool that transcribes a visible
// text CAPTCHA and types the answer. The model calls it when it
// recognizes a robot check it cannot click through with coordinates
// alone.
package captcha

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/entrhq/surf/pkg/computer"
	"github.com/entrhq/surf/pkg/logging"
)

const ocrSystemPrompt = "You transcribe the characters shown in a CAPTCHA image. " +
	"Respond with only the characters, for example: ABC12345. " +
	"If no CAPTCHA is visible, respond with exactly NONE."

// VisionCompleter is the one-shot vision completion the tool needs,
// satisfied by openai.ChatClient.
type VisionCompleter interface {
	CompleteVision(ctx context.Context, system, prompt, imageDataURL string) (string, error)
}

// Tool implements the solve_captcha function tool. It screenshots the
// current page, asks a vision model to read the challenge characters,
// and types them into the focused input.
type Tool struct {
	comp computer.Computer
	chat VisionCompleter
	log  *logging.Logger
}

// New creates the tool bound to a computer and a vision chat client.
func New(comp computer.Computer, chat VisionCompleter) *Tool {
	log, err := logging.NewLogger("captcha")
	if err != nil {
		log.Warnf("file logging unavailable, using stderr: %v", err)
	}
	return &Tool{comp: comp, chat: chat, log: log}
}

// Name returns "solve_captcha".
func (t *Tool) Name() string { return "solve_captcha" }

// Description tells the model when to reach for this tool.
func (t *Tool) Description() string {
	return "Reads the text CAPTCHA visible on the current page and types the characters " +
		"into the focused input field. Click the CAPTCHA answer field first. " +
		"Set submit to true to press Enter after typing."
}

// Schema describes the tool's arguments.
func (t *Tool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"submit": map[string]interface{}{
				"type":        "boolean",
				"description": "Press Enter after typing the characters.",
			},
		},
		"additionalProperties": false,
	}
}

// Execute captures the screen, transcribes the challenge, and types the
// result. It reports what it typed so the transcript records the attempt.
func (t *Tool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	screenshot, err := t.comp.Screenshot()
	if err != nil {
		return "", fmt.Errorf("could not capture screen: %w", err)
	}

	imageURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(screenshot)
	text, err := t.chat.CompleteVision(ctx, ocrSystemPrompt,
		"Transcribe the CAPTCHA characters in this page screenshot.", imageURL)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "NONE") {
		return "no CAPTCHA characters detected on the current page", nil
	}

	t.log.Infof("typing transcribed challenge (%d chars)", len(text))
	if err := t.comp.Type(text); err != nil {
		return "", fmt.Errorf("typing failed: %w", err)
	}

	if submit, _ := args["submit"].(bool); submit {
		if err := t.comp.Keypress([]string{"enter"}); err != nil {
			return "", fmt.Errorf("submit failed: %w", err)
		}
	}
	return fmt.Sprintf("typed CAPTCHA answer %q", text), nil
}
