package model

// Listing is one page of a paginated listing such as the index.
type Listing struct {
	Number int
	Total  int
	Route  Route
	Items  []*ContentItem
}

func (l Listing) HasNext() bool { return l.Number < l.Total }

func (l Listing) HasPrevious() bool { return l.Number > 1 }
