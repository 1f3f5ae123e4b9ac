package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// Database設定
	Database DatabaseConfig

	// OpenAI設定（Embeddings + Vision + Whisper）
	OpenAI OpenAIConfig

	// ファイル出力設定
	Storage StorageConfig

	// 動画解析設定
	Processing ProcessingConfig

	// ログ設定
	Log LogConfig
}

// DatabaseConfig はデータベース接続設定
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// OpenAIConfig はOpenAI API設定
type OpenAIConfig struct {
	APIKey             string
	EmbeddingModel     string
	EmbeddingDimension int
	CaptionModel       string // フレーム画像の説明生成に使用するVisionモデル
	FilterModel        string // 検索結果の関連性フィルタに使用するモデル
	TranscriptionModel string
}

// StorageConfig はフレーム画像と結合動画の出力先設定
type StorageConfig struct {
	FramesDir string
	OutputDir string
}

// ProcessingConfig は動画解析パイプラインの設定
type ProcessingConfig struct {
	Threshold         int     // シーン転換とみなすハミング距離の閾値
	MinSceneDuration  float64 // シーンの最小継続時間（秒）
	MergeGap          float64 // セグメント結合時に許容する間隔（秒）
	CaptionWorkers    int     // フレーム説明生成の並列数
	FilterTimeoutSec  int     // 関連性フィルタのタイムアウト（秒）
	CleanupMaxAgeHour int     // 結合動画を保持する時間（時間単位）
}

// LogConfig はログ出力設定
type LogConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" or "text"
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "videoanalytics"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "videoanalytics"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel:     getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvAsInt("OPENAI_EMBEDDING_DIMENSION", 1536),
			CaptionModel:       getEnv("OPENAI_CAPTION_MODEL", "gpt-4o"),
			FilterModel:        getEnv("OPENAI_FILTER_MODEL", "gpt-4o-mini"),
			TranscriptionModel: getEnv("OPENAI_TRANSCRIPTION_MODEL", "whisper-1"),
		},
		Storage: StorageConfig{
			FramesDir: getEnv("FRAMES_DIR", "/var/lib/video-analytics/frames"),
			OutputDir: getEnv("OUTPUT_DIR", "/var/lib/video-analytics/merged"),
		},
		Processing: ProcessingConfig{
			Threshold:         getEnvAsInt("SCENE_THRESHOLD", 6),
			MinSceneDuration:  getEnvAsFloat("SCENE_MIN_DURATION", 3.0),
			MergeGap:          getEnvAsFloat("MERGE_GAP", 5.0),
			CaptionWorkers:    getEnvAsInt("CAPTION_WORKERS", 5),
			FilterTimeoutSec:  getEnvAsInt("FILTER_TIMEOUT_SEC", 30),
			CleanupMaxAgeHour: getEnvAsInt("CLEANUP_MAX_AGE_HOURS", 24),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat は環境変数を浮動小数点数として取得します
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
