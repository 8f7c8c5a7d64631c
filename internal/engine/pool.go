package engine

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// MaxItemLength caps the length of a pool entry, counted in characters.
const MaxItemLength = 120

// Pool is a list of candidate strings plus the entries consumed from it while
// no-replacement mode is on. Membership in the used list is by value, so
// duplicate entries in the pool are indistinguishable.
type Pool struct {
	items         []string
	used          []string
	noReplacement bool
}

func NewPool(items, used []string, noReplacement bool) *Pool {
	return &Pool{
		items:         slices.Clone(items),
		used:          slices.Clone(used),
		noReplacement: noReplacement,
	}
}

func (p *Pool) clone() *Pool {
	return NewPool(p.items, p.used, p.noReplacement)
}

func (p *Pool) Items() []string { return slices.Clone(p.items) }

// Used returns consumed entries in consumption order.
func (p *Pool) Used() []string { return slices.Clone(p.used) }

func (p *Pool) Len() int { return len(p.items) }

func (p *Pool) NoReplacement() bool { return p.noReplacement }

func (p *Pool) SetNoReplacement(on bool) { p.noReplacement = on }

// Available returns the entries not present in the used list.
func (p *Pool) Available() []string {
	out := make([]string, 0, len(p.items))
	for _, item := range p.items {
		if slices.Contains(p.used, item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// IsUsed reports whether item currently sits in the used list.
func (p *Pool) IsUsed(item string) bool {
	return slices.Contains(p.used, item)
}

// Select draws uniformly from the available entries. With no-replacement on
// the pick is appended to the used list. Nothing changes when the pool is
// exhausted.
func (p *Pool) Select(rnd Rand) (string, error) {
	available := p.Available()
	if len(available) == 0 {
		return "", ErrPoolExhausted
	}
	chosen := available[rnd.IntN(len(available))]
	if p.noReplacement {
		p.used = append(p.used, chosen)
	}
	return chosen, nil
}

// Add appends text after trimming. Empty or over-long text is ignored.
func (p *Pool) Add(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > MaxItemLength {
		return false
	}
	p.items = append(p.items, text)
	return true
}

// Remove deletes the pool entry at index. The used list is left alone and may
// keep an orphaned copy.
func (p *Pool) Remove(index int) (string, bool) {
	if index < 0 || index >= len(p.items) {
		return "", false
	}
	removed := p.items[index]
	p.items = slices.Delete(p.items, index, index+1)
	return removed, true
}

// Restore un-consumes the used entry at index.
func (p *Pool) Restore(index int) (string, bool) {
	if index < 0 || index >= len(p.used) {
		return "", false
	}
	restored := p.used[index]
	p.used = slices.Delete(p.used, index, index+1)
	return restored, true
}

// Undo pops the most recently consumed entry.
func (p *Pool) Undo() (string, bool) {
	if len(p.used) == 0 {
		return "", false
	}
	last := p.used[len(p.used)-1]
	p.used = p.used[:len(p.used)-1]
	return last, true
}

func (p *Pool) Reset() {
	p.used = nil
}

// Replace swaps the entries wholesale. The used list is kept as is.
func (p *Pool) Replace(items []string) {
	p.items = slices.Clone(items)
	if p.items == nil {
		p.items = []string{}
	}
}
