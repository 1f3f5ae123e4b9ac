package merge

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// maxQueryLength はファイル名に含めるクエリ部分の最大長
	maxQueryLength = 50
)

// SanitizeQuery は検索クエリをファイル名に使える形式に変換する
//
// 英数字・スペース・ハイフン・アンダースコア以外を除去し、
// スペースをアンダースコアに置換して50文字に切り詰める
func SanitizeQuery(query string) string {
	var b strings.Builder
	for _, r := range query {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	sanitized := strings.TrimSpace(b.String())
	sanitized = strings.ReplaceAll(sanitized, " ", "_")
	if len(sanitized) > maxQueryLength {
		sanitized = sanitized[:maxQueryLength]
	}
	return sanitized
}

// MergedFilename は結合動画の出力ファイル名を生成する
//
// 形式: merged_<クエリ>_<区間数>segments_<合計秒数>s_<トークン>.mp4
// トークンはUUID先頭8文字で、同一クエリの再実行でも衝突しない
func MergedFilename(query string, segmentCount int, totalDuration float64) string {
	token := uuid.New().String()[:8]
	return fmt.Sprintf("merged_%s_%dsegments_%.1fs_%s.mp4",
		SanitizeQuery(query),
		segmentCount,
		totalDuration,
		token,
	)
}
