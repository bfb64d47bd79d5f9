package dto

// PageList is a decoded page payload: one batch of items plus the total count
// across all pages.
type PageList[E any] interface {
	PageItems() []E
	PageTotal() int
}

// Page is the default page payload shape `{"items": [...], "total": n}`.
type Page[E any] struct {
	Items []E `json:"items" yaml:"items"`
	Total int `json:"total" yaml:"total"`
}

func (p Page[E]) PageItems() []E { return p.Items }
func (p Page[E]) PageTotal() int { return p.Total }

type PageLoadState string

const (
	LoadIdle        PageLoadState = "idle"
	LoadRefreshing  PageLoadState = "refreshing"
	LoadLoadingMore PageLoadState = "loading_more"
)

func (s PageLoadState) IsLoading() bool {
	return s == LoadRefreshing || s == LoadLoadingMore
}

// PageState is the pagination bookkeeping of one feed.
type PageState[E any] struct {
	Page      int           `json:"page" yaml:"page"`
	Total     int           `json:"total" yaml:"total"`
	Items     []E           `json:"items" yaml:"items"`
	HasMore   bool          `json:"has_more" yaml:"has_more"`
	LoadState PageLoadState `json:"load_state" yaml:"load_state"`
}

type ReachabilityStatus string

const (
	ReachabilityUnknown      ReachabilityStatus = "unknown"
	ReachabilityNotReachable ReachabilityStatus = "not_reachable"
	ReachabilityReachable    ReachabilityStatus = "reachable"
)
