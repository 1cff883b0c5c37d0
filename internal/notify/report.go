package notify

import (
	"fmt"
	"strings"
)

// Report writes outcome to sink. Nothing is written unless verbose is set,
// failures included: delivery is fire-and-forget on a quiet console.
func Report(outcome Outcome, verbose bool, sink Sink) {
	if !verbose || sink == nil || outcome == nil {
		return
	}

	switch o := outcome.(type) {
	case Delivered:
		sink.RespondInfo(strings.TrimSpace(fmt.Sprintf("Status: %d %s", o.StatusCode, o.Reason)))
		sink.RespondInfo("Response: " + o.Body)
	case Failed:
		sink.RespondInfo("Request failed: " + o.Detail)
	}
}
