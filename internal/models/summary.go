package models

// ChannelSummary counts what a run did for one channel.
type ChannelSummary struct {
	Channel         string
	Videos          int // Videos whose play info was fetched
	CaptionsFound   int
	CaptionsWritten int
	VideosWritten   int
	Skipped         int // Videos abandoned after retries or a terminal error
	Failed          int // Videos that failed while writing files
}

// RunSummary is the result of a whole run, in processing order.
type RunSummary struct {
	RunID    string
	Channels []ChannelSummary
}

// TotalCaptionsWritten sums the written captions over all channels.
func (s RunSummary) TotalCaptionsWritten() int {
	total := 0
	for _, c := range s.Channels {
		total += c.CaptionsWritten
	}
	return total
}
