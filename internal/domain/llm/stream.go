package llm

import (
	"errors"
	"io"
	"strings"
)

// StreamResult is what remains once a stream has been drained.
type StreamResult struct {
	Content string
	Usage   *Usage
	Metrics *RuntimeMetrics
}

// CollectStream drains stream, handing each non-empty text fragment to
// onFragment as it arrives, and returns the reconstructed full text.
// The stream is always closed.
func CollectStream(stream Stream, onFragment func(string) error) (*StreamResult, error) {
	defer stream.Close()

	var (
		content strings.Builder
		result  StreamResult
	)
	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if delta == nil {
			continue
		}
		if delta.Usage != nil {
			result.Usage = delta.Usage
		}
		if delta.Metrics != nil {
			result.Metrics = delta.Metrics
		}
		for _, choice := range delta.Choices {
			fragment := choice.Delta.Content
			if fragment == "" {
				continue
			}
			content.WriteString(fragment)
			if onFragment != nil {
				if err := onFragment(fragment); err != nil {
					return nil, err
				}
			}
		}
	}

	result.Content = content.String()
	return &result, nil
}
