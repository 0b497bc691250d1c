package scoring

import (
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Splitter breaks text into sentences with the English Punkt model. The
// model is built on first use and shared by all callers.
type Splitter struct {
	once      sync.Once
	tokenizer *sentences.DefaultSentenceTokenizer
	err       error
}

// NewSplitter returns a Splitter. The tokenizer is not loaded until Split.
func NewSplitter() *Splitter {
	return &Splitter{}
}

func (s *Splitter) load() error {
	s.once.Do(func() {
		s.tokenizer, s.err = english.NewSentenceTokenizer(nil)
	})
	return s.err
}

// Split returns the trimmed, non-empty sentences of text in order, with inner
// whitespace collapsed. Blank lines always end a sentence. If the tokenizer
// cannot be built each paragraph counts as one sentence.
func (s *Splitter) Split(text string) []string {
	err := s.load()

	var out []string
	for _, para := range splitParagraphs(text) {
		if err != nil {
			out = appendSentence(out, para)
			continue
		}
		for _, sent := range s.tokenizer.Tokenize(para) {
			out = appendSentence(out, sent.Text)
		}
	}
	return out
}

func appendSentence(out []string, raw string) []string {
	if sent := strings.Join(strings.Fields(raw), " "); sent != "" {
		out = append(out, sent)
	}
	return out
}

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var paras []string
	var cur []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				paras = append(paras, strings.Join(cur, "\n"))
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		paras = append(paras, strings.Join(cur, "\n"))
	}
	return paras
}
