// Shared data shapes flowing between the collection stages.

package models

// Sentinels used when a site exposes no value for a field. Downstream
// consumers rely on these being present instead of empty strings.
const (
	NoTitle    = "無題の求人"
	NoCompany  = "社名非公開"
	NoLocation = "不明"
	NoSalary   = "要確認"
	NoDetail   = "情報なし"
	Nationwide = "全国"
)

// JobListing is one summary row read from a search results view.
type JobListing struct {
	Source     string `json:"source"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Company    string `json:"company"`
	Location   string `json:"location"`
	Salary     string `json:"salary"`
	UpdateDate string `json:"updateDate"`
	Status     string `json:"status"`
}

// JobDetail holds the long-form fields pulled from a detail view.
// Fields never stay empty; unresolved ones keep the NoDetail sentinel.
type JobDetail struct {
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Conditions   string `json:"conditions"`
	Process      string `json:"process"`
}

// NewJobDetail returns a detail record with every field on its sentinel.
func NewJobDetail() JobDetail {
	return JobDetail{
		Description:  NoDetail,
		Requirements: NoDetail,
		Conditions:   NoDetail,
		Process:      NoDetail,
	}
}

// EnrichedJob is a listing combined with its detail fields, ready to emit.
type EnrichedJob struct {
	JobListing
	ID     string    `json:"id"`
	Detail JobDetail `json:"detail"`
}

// FilterCriteria is the caller's search request. Empty fields mean
// "no constraint".
type FilterCriteria struct {
	Query       string `json:"query"`
	Location    string `json:"location"`
	JobCategory string `json:"jobCategory"`
	MinSalary   string `json:"minSalary"`
	Experience  string `json:"experience"`
	AppCategory string `json:"appCategory"`
}

// Credentials is a per-source login pair. Both the user/pass and
// email/password key spellings are accepted on the wire.
type Credentials struct {
	User     string `json:"user"`
	Pass     string `json:"pass"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Username() string {
	if c.User != "" {
		return c.User
	}
	return c.Email
}

func (c Credentials) Secret() string {
	if c.Pass != "" {
		return c.Pass
	}
	return c.Password
}
