package mock

import "github.com/fwojciec/zimjson"

var _ zimjson.Inspector = (*Inspector)(nil)

// Inspector is a mock implementation of zimjson.Inspector.
type Inspector struct {
	IsMetaRefreshFn func(html string) bool
	MainFragmentFn  func(html string) string
	HarvestLinksFn  func(fragment string) *zimjson.Links
}

func (i *Inspector) IsMetaRefresh(html string) bool {
	return i.IsMetaRefreshFn(html)
}

func (i *Inspector) MainFragment(html string) string {
	return i.MainFragmentFn(html)
}

func (i *Inspector) HarvestLinks(fragment string) *zimjson.Links {
	return i.HarvestLinksFn(fragment)
}
