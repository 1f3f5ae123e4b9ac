package search

import (
	"github.com/google/uuid"
)

// SearchHit はシーン検索の1件の結果を表す
type SearchHit struct {
	SceneID            uuid.UUID `json:"sceneID"`
	VideoID            uuid.UUID `json:"videoID"`
	VideoTitle         string    `json:"videoTitle"`
	VideoPath          string    `json:"videoPath"`
	SceneNumber        int       `json:"sceneNumber"`
	StartTime          float64   `json:"startTime"`
	EndTime            float64   `json:"endTime"`
	StartTimeFormatted string    `json:"startTimeFormatted"`
	EndTimeFormatted   string    `json:"endTimeFormatted"`
	Transcript         string    `json:"transcript"`
	VisualContext      *string   `json:"visualContext,omitempty"`
	CombinedContext    string    `json:"combinedContext"`
	ImagePath          *string   `json:"imagePath,omitempty"`
	Score              float64   `json:"score"`
}

// SearchFilter は検索時の任意フィルタを表す
type SearchFilter struct {
	VideoID  *uuid.UUID // 特定動画に限定する場合
	MinScore *float64   // 類似度スコアの下限
}

// Timeline は1本の動画内で検索にヒットした時間範囲を表す
type Timeline struct {
	VideoID        uuid.UUID `json:"videoID"`
	VideoTitle     string    `json:"videoTitle"`
	StartTime      float64   `json:"startTime"`
	EndTime        float64   `json:"endTime"`
	StartFormatted string    `json:"startFormatted"`
	EndFormatted   string    `json:"endFormatted"`
	SceneCount     int       `json:"sceneCount"`
}
