package tide

import (
	"errors"
	"fmt"
)

// Errors returned by a Provider. Each maps to its own user-facing label.
var (
	ErrMissingAPIKey     = errors.New("upstream API key is not configured")
	ErrUpstream          = errors.New("upstream request failed")
	ErrStatusFailed      = errors.New("upstream reported success=false")
	ErrNoForecast        = errors.New("upstream returned no tide forecast")
	ErrNoDailyRecord     = errors.New("upstream returned no daily record")
	ErrMalformedResponse = errors.New("upstream response is malformed")
)

// Label converts a lookup error into the message shown to users.
func Label(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingAPIKey):
		return "未設定 API 金鑰"
	case errors.Is(err, ErrStatusFailed):
		return "API 回傳狀態失敗"
	case errors.Is(err, ErrNoForecast):
		return "無法取得潮汐預報資料"
	case errors.Is(err, ErrNoDailyRecord):
		return "無法取得當日潮汐資料"
	case errors.Is(err, ErrMalformedResponse):
		return "潮汐資料格式錯誤"
	default:
		return fmt.Sprintf("發生錯誤：%v", err)
	}
}
