// Static catalog of the supported job databases and their locators.
// Entries are defined once at startup and shared read-only.

package sites

// LoginLocators identifies the credential form elements of a source.
type LoginLocators struct {
	User    string
	Pass    string
	Button  string
	Captcha string
}

// SearchLocators identifies the structured search controls of a source.
type SearchLocators struct {
	Keyword     string
	Industry    string
	JobCategory string
	Location    string
}

// FieldLocators identifies listing rows and their summary fields.
type FieldLocators struct {
	Item     string
	Title    string
	Company  string
	Location string
	Salary   string
	Date     string
}

// Site describes one external job database.
type Site struct {
	Key      string
	URL      string
	LoginURL string
	Login    LoginLocators
	Search   SearchLocators
	Fields   FieldLocators

	// SyntheticLocators marks sources whose rows have no addressable URL;
	// listings carry a positional reference resolved at enrichment time.
	SyntheticLocators bool
}

var registry = map[string]*Site{
	"careerbank": {
		Key:      "careerbank",
		URL:      "https://careerbank-jobsearch.com/jobsearch/",
		LoginURL: "https://careerbank-jobsearch.com/wp-login.php",
		Login: LoginLocators{
			User:    "input#user_login",
			Pass:    "input#user_pass",
			Button:  "input#wp-submit",
			Captcha: "input#siteguard_captcha",
		},
		Search: SearchLocators{
			Keyword:     "input#feas_1_0, input[name=\"s\"]",
			Industry:    "select#feas_1_2",
			JobCategory: "input[name=\"c[]\"]",
		},
		Fields: FieldLocators{
			Item:     ".panel.panel-default, .feas_job_list_item",
			Title:    ".job_detail_h3 a, .feas_job_title a",
			Company:  ".job_detail_td, .feas_job_company",
			Location: ".job_detail_td, .feas_job_location",
			Salary:   ".job_detail_td, .feas_job_salary",
			Date:     ".feas_job_date",
		},
	},
	"jobmiru": {
		Key:      "jobmiru",
		URL:      "https://rightjob.app.jobmiru.cloud/p/jobs",
		LoginURL: "https://rightjob.app.jobmiru.cloud/auth/signin",
		Login: LoginLocators{
			User:   "input[name=\"email\"]",
			Pass:   "input[name=\"password\"]",
			Button: "button[type=\"submit\"]",
		},
		Search: SearchLocators{
			Keyword:     genericKeywordSelector,
			Location:    "input[data-dd-action-name=\"click_search_field_location\"], input[placeholder*=\"東京\"]",
			JobCategory: "input[data-dd-action-name=\"click_search_field_name\"], input[placeholder*=\"セールス\"]",
		},
		Fields: FieldLocators{
			Item:     "tr.grid, tbody tr",
			Title:    "td:nth-child(1) a",
			Company:  "td:nth-child(1) .text-gray-600",
			Location: "td:nth-child(4)",
			Salary:   "td:nth-child(3)",
		},
	},
	"jobins": {
		Key:      "jobins",
		URL:      "https://jobins.jp/agent/",
		LoginURL: "https://jobins.jp/agent/login",
		Login: LoginLocators{
			User:   "#email",
			Pass:   "#password",
			Button: "#login-button-submit",
		},
		Search: SearchLocators{
			Keyword: genericKeywordSelector,
		},
		Fields: FieldLocators{
			Item:     "[class*=\"jb-shadow\"], [class*=\"jb-border\"], .job-card",
			Title:    "h4, [class*=\"jb-text-agent-secondary\"]",
			Company:  "[class*=\"jb-text-slate-600\"]",
			Location: ".job-location",
			Salary:   ".job-salary",
		},
		SyntheticLocators: true,
	},
}

// Fallback chain for SPA-style free-word boxes whose placeholders vary.
const genericKeywordSelector = "input[placeholder*=\"ID、求人名\"], input[placeholder*=\"仕事内容\"], input[placeholder*=\"キーワード\"], input[placeholder*=\"フリーワード\"], input.search-input, [class*=\"search\"] input, input[placeholder*=\"例）\"]"

// Lookup returns the descriptor for a source key.
func Lookup(key string) (*Site, bool) {
	s, ok := registry[key]
	return s, ok
}

// Keys lists every registered source key.
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	return keys
}
