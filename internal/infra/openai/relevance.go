package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/pkoukk/tiktoken-go"

	"github.com/Bharath-2656/video-analytics/internal/core/search"
)

const (
	// DefaultFilterModel は関連性選別に使うモデル
	DefaultFilterModel = "gpt-4o-mini"

	// candidateTokenLimit は候補1件あたりプロンプトに含める最大トークン数
	candidateTokenLimit = 500

	// filterMaxTokens は選別結果の最大生成トークン数
	filterMaxTokens = 500

	// tokenEncoding はトークン数の見積もりに使うエンコーディング
	tokenEncoding = "cl100k_base"
)

// relevanceResponse はLLMの選別結果のJSON構造
// relevant_scenes は候補リストの1始まり番号
type relevanceResponse struct {
	RelevantScenes []int  `json:"relevant_scenes"`
	Reasoning      string `json:"reasoning"`
}

// RelevanceFilter は OpenAI で検索候補の関連性を選別する
type RelevanceFilter struct {
	client *Client
	model  string
}

// NewRelevanceFilter は新しい RelevanceFilter を作成する
// model が空の場合はデフォルトモデルを使う
func NewRelevanceFilter(client *Client, model string) *RelevanceFilter {
	if model == "" {
		model = DefaultFilterModel
	}
	return &RelevanceFilter{
		client: client,
		model:  model,
	}
}

// FilterRelevant はクエリに本当に関連する候補の0始まりインデックス列を返す
func (f *RelevanceFilter) FilterRelevant(ctx context.Context, query string, hits []*search.SearchHit) ([]int, error) {
	if len(hits) == 0 {
		return nil, nil
	}

	prompt := f.buildPrompt(query, hits)

	resp, err := f.client.generateCompletion(ctx, completionRequest{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:        f.model,
		MaxTokens:    filterMaxTokens,
		Temperature:  0,
		JSONResponse: true,
	})
	if err != nil {
		return nil, fmt.Errorf("relevance filtering failed: %w", err)
	}

	return parseRelevanceResponse(resp.Content, len(hits))
}

// buildPrompt は候補リストを番号付きで並べた選別プロンプトを組み立てる
func (f *RelevanceFilter) buildPrompt(query string, hits []*search.SearchHit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A user searched lecture videos for: %q\n\n", query)
	b.WriteString("Below are candidate scenes with their transcript and visual context.\n")
	b.WriteString("Select ONLY the scenes that are truly relevant to the query.\n\n")

	for i, hit := range hits {
		fmt.Fprintf(&b, "Scene %d (video: %s, %s - %s):\n%s\n\n",
			i+1,
			hit.VideoTitle,
			hit.StartTimeFormatted,
			hit.EndTimeFormatted,
			truncateTokens(hit.CombinedContext, candidateTokenLimit),
		)
	}

	b.WriteString(`Respond with JSON in this exact format:
{"relevant_scenes": [1, 3], "reasoning": "brief explanation"}
The numbers are the scene numbers from the list above (1-based).`)

	return b.String()
}

// parseRelevanceResponse は選別結果のJSONを0始まりインデックス列に変換する
// 範囲外の番号は無視する
func parseRelevanceResponse(content string, candidateCount int) ([]int, error) {
	cleaned := stripJSONFences(content)

	var parsed relevanceResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	}

	indices := make([]int, 0, len(parsed.RelevantScenes))
	for _, num := range parsed.RelevantScenes {
		idx := num - 1
		if idx < 0 || idx >= candidateCount {
			continue
		}
		indices = append(indices, idx)
	}

	return indices, nil
}

// stripJSONFences はマークダウンのコードフェンスで囲まれたJSONを剥がす
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// truncateTokens はテキストを指定トークン数以内に切り詰める
// エンコーディングの取得に失敗した場合は文字数ベースで概算する
func truncateTokens(text string, limit int) string {
	enc, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		if len(text) > limit*4 {
			return text[:limit*4]
		}
		return text
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text
	}
	return enc.Decode(tokens[:limit])
}

// インターフェース実装の確認
var _ search.RelevanceFilter = (*RelevanceFilter)(nil)
