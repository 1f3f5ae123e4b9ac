package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go/v3"

	"github.com/Bharath-2656/video-analytics/internal/core/ingestion"
)

const (
	// DefaultCaptionModel はフレーム解析に使うビジョン対応モデル
	DefaultCaptionModel = "gpt-4o"

	// captionMaxTokens はキャプション1件あたりの最大生成トークン数
	captionMaxTokens = 300
)

// captionPrompt は講義フレームの内容説明を引き出すプロンプト
const captionPrompt = `This is a frame from a lecture video. Describe concisely:
1. Any text visible on the slide (titles, bullet points, code)
2. Any diagrams, charts, or visual structures
3. The main concept being presented
Respond in 2-3 sentences.`

// Captioner は OpenAI のビジョンモデルでフレーム画像の説明を生成する
type Captioner struct {
	client *Client
	model  string
}

// NewCaptioner は新しい Captioner を作成する
// model が空の場合はデフォルトのビジョンモデルを使う
func NewCaptioner(client *Client, model string) *Captioner {
	if model == "" {
		model = DefaultCaptionModel
	}
	return &Captioner{
		client: client,
		model:  model,
	}
}

// Caption はフレーム画像の内容説明を生成する
func (c *Captioner) Caption(ctx context.Context, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read frame image: %w", err)
	}

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(captionPrompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL,
		}),
	}

	resp, err := c.client.generateCompletion(ctx, completionRequest{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(parts),
		},
		Model:       c.model,
		MaxTokens:   captionMaxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("caption generation failed: %w", err)
	}

	return strings.TrimSpace(resp.Content), nil
}

// インターフェース実装の確認
var _ ingestion.Captioner = (*Captioner)(nil)
