package components

import "github.com/yohamta/donburi"

// Notice is one line in the notification feed.
type Notice struct {
	Text string
	TTL  float64 // seconds left on screen
}

// FeedData is a singleton holding kill-feed and chat notices, newest last.
type FeedData struct {
	Notices []Notice
}

var Feed = donburi.NewComponentType[FeedData]()

// Push appends a notice and drops the oldest ones beyond limit.
func (f *FeedData) Push(text string, ttl float64, limit int) {
	f.Notices = append(f.Notices, Notice{Text: text, TTL: ttl})
	if limit > 0 && len(f.Notices) > limit {
		f.Notices = f.Notices[len(f.Notices)-limit:]
	}
}

// Decay ages every notice by dt seconds and drops expired ones.
func (f *FeedData) Decay(dt float64) {
	kept := f.Notices[:0]
	for _, n := range f.Notices {
		n.TTL -= dt
		if n.TTL > 0 {
			kept = append(kept, n)
		}
	}
	f.Notices = kept
}
