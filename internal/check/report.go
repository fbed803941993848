package check

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Report summarizes a load test.
type Report struct {
	Responses []Response
	Elapsed   time.Duration
}

func newReport(responses []Response, elapsed time.Duration) Report {
	out := make([]Response, len(responses))
	copy(out, responses)
	return Report{Responses: out, Elapsed: elapsed}
}

// Transactions is the number of completed tasks.
func (r Report) Transactions() int {
	return len(r.Responses)
}

// Successful is the number of tasks that loaded.
func (r Report) Successful() int {
	n := 0
	for _, resp := range r.Responses {
		if resp.Success {
			n++
		}
	}
	return n
}

// Failed is the number of tasks that did not load.
func (r Report) Failed() int {
	return r.Transactions() - r.Successful()
}

// Availability is the success percentage.
func (r Report) Availability() float64 {
	if len(r.Responses) == 0 {
		return 0
	}
	return float64(r.Successful()) * 100 / float64(r.Transactions())
}

// Average is the mean response time of successful tasks.
func (r Report) Average() time.Duration {
	var sum int64
	n := 0
	for _, resp := range r.Responses {
		if resp.Success {
			sum += resp.Time
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return time.Duration(sum/int64(n)) * time.Millisecond
}

// Slowest is the longest successful response time.
func (r Report) Slowest() time.Duration {
	var slowest int64
	for _, resp := range r.Responses {
		if resp.Success && resp.Time > slowest {
			slowest = resp.Time
		}
	}
	return time.Duration(slowest) * time.Millisecond
}

// Fastest is the shortest successful response time.
func (r Report) Fastest() time.Duration {
	fastest := int64(-1)
	for _, resp := range r.Responses {
		if resp.Success && (fastest < 0 || resp.Time < fastest) {
			fastest = resp.Time
		}
	}
	if fastest < 0 {
		return 0
	}
	return time.Duration(fastest) * time.Millisecond
}

// Rate is completed transactions per second.
func (r Report) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Transactions()) / r.Elapsed.Seconds()
}

// WriteTo prints the report table.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	rule := strings.Repeat("=", 80)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Transactions:            %d\n", r.Transactions())
	fmt.Fprintf(&b, "Successful transactions: %d\n", r.Successful())
	fmt.Fprintf(&b, "Failed transactions:     %d\n", r.Failed())
	fmt.Fprintf(&b, "Availability:            %.1f %%\n", r.Availability())
	fmt.Fprintf(&b, "Elapsed time:            %.3f secs\n", r.Elapsed.Seconds())
	fmt.Fprintf(&b, "Average response time:   %.3f secs\n", r.Average().Seconds())
	fmt.Fprintf(&b, "Slowest response time:   %.3f secs\n", r.Slowest().Seconds())
	fmt.Fprintf(&b, "Fastest response time:   %.3f secs\n", r.Fastest().Seconds())
	fmt.Fprintf(&b, "Transaction rate:        %.2f trans/sec\n", r.Rate())
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
