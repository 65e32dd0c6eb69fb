package session

type wordQueue struct {
	words []string
}

func newWordQueue(words []string) *wordQueue {
	q := &wordQueue{words: make([]string, len(words))}
	copy(q.words, words)
	return q
}

func (q *wordQueue) Empty() bool { return len(q.words) == 0 }

// Pop returns the front word, or "" once the queue is exhausted.
func (q *wordQueue) Pop() string {
	if len(q.words) == 0 {
		return ""
	}
	w := q.words[0]
	q.words = q.words[1:]
	return w
}
