package scene

import "strings"

// AlignTranscript は時刻付き文字起こし区間をシーン区間に割り当て、
// シーンごとの文字起こしテキストを返す
//
// 判定は厳密な不等号による重なり（seg.Start < scene.End かつ
// seg.End > scene.Start）で行う。シーン境界をまたぐ区間は重なる
// すべてのシーンに全文が寄与する（シーン間の重複は許容される）。
// 重なる区間がないシーンには空文字列が入り、エラーにはならない。
// テキストは元の順序のままスペース結合される。
func AlignTranscript(scenes []Interval, segments []TranscriptSegment) []string {
	texts := make([]string, len(scenes))

	for i, sc := range scenes {
		var b strings.Builder
		for _, seg := range segments {
			if seg.Start < sc.End && seg.End > sc.Start {
				if b.Len() > 0 {
					b.WriteString(" ")
				}
				b.WriteString(strings.TrimSpace(seg.Text))
			}
		}
		texts[i] = b.String()
	}

	return texts
}
