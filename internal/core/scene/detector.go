package scene

import "fmt"

const (
	// DefaultThreshold はデフォルトの遷移検出しきい値
	// 値を上げると感度が下がり、アニメーションや圧縮ノイズによる誤検出が減る
	DefaultThreshold = 6
)

// DetectTransitions は1Hzでサンプリングした時系列Fingerprintから
// 確定したシーン遷移点を検出する
//
// 連続するサンプル間のハミング距離がしきい値を超えた点を候補とし、
// 時間方向の平滑化で孤立スパイクを除外する。直前のホップ（i-2 → i-1）も
// しきい値を超えていた場合は、クリーンなカットではなくアニメーションや
// ノイズの連続変化とみなして候補を棄却する。それ以外の候補
// （先頭・末尾で前後の参照ができない場合を含む）はそのまま確定する。
//
// サンプルが2つ未満の場合は遷移なし（空スライス）を返し、
// 呼び出し側は動画全体を1シーンとして扱う。
func DetectTransitions(samples []Fingerprint, threshold int) []Transition {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if len(samples) < 2 {
		return nil
	}

	var transitions []Transition
	sceneID := 1

	for i := 1; i < len(samples); i++ {
		diff := samples[i-1].Distance(samples[i])
		if diff <= threshold {
			continue
		}

		// 時間方向の検証: 直前のホップも大きければ連続変化（ノイズ）とみなす
		if i > 1 {
			prevDiff := samples[i-2].Distance(samples[i-1])
			if prevDiff > threshold {
				continue
			}
		}

		transitions = append(transitions, Transition{
			Timestamp: samples[i].Timestamp,
			FrameFile: fmt.Sprintf("Scene-%03d.jpg", sceneID),
			Distance:  diff,
		})
		sceneID++
	}

	return transitions
}
