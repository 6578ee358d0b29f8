package location

import "strings"

// KeywordRule maps a display-name substring to a county.
type KeywordRule struct {
	Keyword string
	County  string
}

// DefaultKeywords is evaluated in order; the first rule whose keyword occurs
// in a display name decides the county, even if a later rule is more specific.
var DefaultKeywords = []KeywordRule{
	{"新北", "新北市"},
	{"基隆", "基隆市"},
	{"桃園", "桃園市"},
	{"新竹縣", "新竹縣"},
	{"竹北", "新竹縣"},
	{"新竹", "新竹市"},
	{"苗栗", "苗栗縣"},
	{"台中", "臺中市"},
	{"臺中", "臺中市"},
	{"彰化", "彰化縣"},
	{"雲林", "雲林縣"},
	{"嘉義", "嘉義縣"},
	{"台南", "臺南市"},
	{"臺南", "臺南市"},
	{"高雄", "高雄市"},
	{"屏東", "屏東縣"},
	{"台東", "臺東縣"},
	{"臺東", "臺東縣"},
	{"花蓮", "花蓮縣"},
	{"宜蘭", "宜蘭縣"},
	{"澎湖", "澎湖縣"},
	{"金門", "金門縣"},
	{"馬祖", "連江縣"},
	{"連江", "連江縣"},
	{"new taipei", "新北市"},
	{"keelung", "基隆市"},
	{"taoyuan", "桃園市"},
	{"hsinchu", "新竹市"},
	{"miaoli", "苗栗縣"},
	{"taichung", "臺中市"},
	{"changhua", "彰化縣"},
	{"yunlin", "雲林縣"},
	{"chiayi", "嘉義縣"},
	{"tainan", "臺南市"},
	{"kaohsiung", "高雄市"},
	{"pingtung", "屏東縣"},
	{"taitung", "臺東縣"},
	{"hualien", "花蓮縣"},
	{"yilan", "宜蘭縣"},
	{"penghu", "澎湖縣"},
	{"kinmen", "金門縣"},
	{"matsu", "連江縣"},
}

// InferCounty returns the county of the first rule matching displayName.
func InferCounty(displayName string) (string, bool) {
	return InferCountyWith(DefaultKeywords, displayName)
}

// InferCountyWith is InferCounty over a caller-supplied rule table.
func InferCountyWith(rules []KeywordRule, displayName string) (string, bool) {
	name := strings.ToLower(displayName)
	if strings.TrimSpace(name) == "" {
		return "", false
	}
	for _, rule := range rules {
		if strings.Contains(name, strings.ToLower(rule.Keyword)) {
			return rule.County, true
		}
	}
	return "", false
}
