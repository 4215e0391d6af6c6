package ocr

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JonMunkholm/scorecard/internal/config"
	"github.com/JonMunkholm/scorecard/internal/core"
	"github.com/JonMunkholm/scorecard/internal/logging"
)

// maxErrorBody bounds how much of a failed response is quoted in errors.
const maxErrorBody = 512

// OllamaClient calls the chat endpoint of an Ollama server with a vision model.
type OllamaClient struct {
	endpoint   string
	model      string
	prompt     string
	httpClient *http.Client
}

// NewOllamaClient creates a client. Per-request deadlines come from the
// caller's context; cfg.Timeout is applied as the client timeout.
func NewOllamaClient(cfg config.OCRConfig) *OllamaClient {
	return &OllamaClient{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		prompt:     ScorecardPrompt,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *OllamaClient) Name() string { return "ollama" }

type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatChunk is one line of the newline-delimited response stream.
type chatChunk struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error"`
}

// Recognize sends the image and concatenates the streamed message content.
// Lines that are not valid JSON are logged and skipped.
func (c *OllamaClient) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", core.ErrNoImage
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role:    "user",
			Content: c.prompt,
			Images:  []string{base64.StdEncoding.EncodeToString(image)},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("ocr service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	logger := logging.FromContext(ctx)
	var text strings.Builder

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var chunk chatChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			logger.Warn("skipping undecodable ocr stream line", "line", lineNum, "error", err)
			continue
		}
		if chunk.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrEngineFailed, chunk.Error)
		}
		text.WriteString(chunk.Message.Content)
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("ocr request failed: read stream: %w", err)
	}

	out := text.String()
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyTranscription
	}
	return out, nil
}
