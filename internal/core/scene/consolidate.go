package scene

const (
	// DefaultMinSceneDuration はデフォルトの最小シーン長（秒）
	// これより短いシーンを生む遷移は誤検出として直前のシーンに統合する
	DefaultMinSceneDuration = 3.0
)

// Consolidate は最小シーン長未満の間隔で発生した遷移を除去する
//
// 最初の遷移は常に残す。以降の各遷移は「最後に残した遷移」との間隔で
// 判定し、間隔が minSceneDuration 未満なら棄却する（棄却された遷移は
// 比較基準をリセットしない）。左から右への単一パスのみで、
// 後戻りや二次パスは行わない。このため僅かに短いギャップが連続すると
// 1つの非常に長いシーンに蓄積されうるが、これは意図した挙動であり
// アニメーションのちらつきと本物の高速なスライド切り替えを
// 時間長で区別するための設計判断である。
//
// minSceneDuration = 0 のとき入力をそのまま返す。
func Consolidate(transitions []Transition, minSceneDuration float64) []Transition {
	if len(transitions) < 2 {
		return transitions
	}

	consolidated := make([]Transition, 0, len(transitions))
	consolidated = append(consolidated, transitions[0])

	for _, t := range transitions[1:] {
		lastKept := consolidated[len(consolidated)-1]
		if t.Timestamp-lastKept.Timestamp >= minSceneDuration {
			consolidated = append(consolidated, t)
		}
	}

	return consolidated
}
