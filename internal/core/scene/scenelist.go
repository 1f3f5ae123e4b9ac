package scene

// BuildSceneList は確定した遷移タイムスタンプ列を [0, duration) を被覆する
// シーン区間列に変換する純粋関数
//
//   - 遷移が0個または1個: 動画全体を1シーンとして返す
//     （開始は遷移があればそのタイムスタンプ、なければ 0.0）
//   - 遷移が2個以上: 隣接ペアがシーン境界になる。最後の遷移が動画末尾より
//     前にある場合は末尾までのシーンを追加する
//
// 有効な入力に対して、結果は昇順・隙間なし・重複なしで、
// scene[i].End == scene[i+1].Start が常に成り立つ。
func BuildSceneList(transitions []Transition, duration float64) []Interval {
	if len(transitions) < 2 {
		start := 0.0
		if len(transitions) == 1 {
			start = transitions[0].Timestamp
		}
		return []Interval{{Start: start, End: duration}}
	}

	scenes := make([]Interval, 0, len(transitions))
	for i := 0; i < len(transitions)-1; i++ {
		scenes = append(scenes, Interval{
			Start: transitions[i].Timestamp,
			End:   transitions[i+1].Timestamp,
		})
	}

	last := transitions[len(transitions)-1].Timestamp
	if last < duration {
		scenes = append(scenes, Interval{Start: last, End: duration})
	}

	return scenes
}

// AnchorTransitions は遷移列の先頭を動画先頭（0秒）に正規化する
//
// 検出器は1秒目以降のサンプルしか遷移として報告できないため、
// 最初に確定した遷移が0秒より後の場合は先頭に遷移を補う。
// これにより永続化されるシーン分割は常に scene[0].Start == 0 を満たす。
// 補われた遷移の代表画像は最初のシーン画像（Scene-000.jpg）になる。
func AnchorTransitions(transitions []Transition) []Transition {
	if len(transitions) == 0 || transitions[0].Timestamp == 0 {
		return transitions
	}

	anchored := make([]Transition, 0, len(transitions)+1)
	anchored = append(anchored, Transition{Timestamp: 0, FrameFile: "Scene-000.jpg"})
	anchored = append(anchored, transitions...)
	return anchored
}
