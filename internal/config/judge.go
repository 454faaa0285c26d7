package config

import (
	"os"
	"strconv"
	"time"
)

// JudgeConfig is the immutable judging configuration loaded once at process
// start and passed explicitly into the dispatcher and protocol client.
type JudgeConfig struct {
	// ServerToken is the shared secret; the client sends sha256(ServerToken)
	ServerToken string

	// RequestTimeout bounds one judge server call; a hang past it is treated
	// as a transport failure
	RequestTimeout time.Duration

	// Timezone is the reference zone for deadline checks
	Timezone string

	// LanguagesFile points at the JSON file with language/spj configs
	LanguagesFile string
}

func NewJudgeConfig() *JudgeConfig {
	timeoutSec, err := strconv.Atoi(os.Getenv("JUDGE_REQUEST_TIMEOUT_SEC"))
	if err != nil || timeoutSec <= 0 {
		timeoutSec = 30
	}
	tz := os.Getenv("JUDGE_TIMEZONE")
	if tz == "" {
		tz = "Asia/Taipei"
	}
	return &JudgeConfig{
		ServerToken:    os.Getenv("JUDGE_SERVER_TOKEN"),
		RequestTimeout: time.Duration(timeoutSec) * time.Second,
		Timezone:       tz,
		LanguagesFile:  os.Getenv("JUDGE_LANGUAGES_FILE"),
	}
}
