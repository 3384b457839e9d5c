package record

// Table names used by the harness.
const (
	TransactionTable  = "transactions"
	SignalChangeTable = "signal_changes"
	ResultTable       = "results"
)

// TransactionEntry is one accepted bus transaction.
type TransactionEntry struct {
	Scenario string
	Seq      int
	Time     float64
	Value    uint64
}

// SignalChangeEntry is one value change of a traced signal.
type SignalChangeEntry struct {
	Time     float64
	Signal   string
	OldValue uint64
	NewValue uint64
}

// ResultEntry is the verdict of one scenario run.
type ResultEntry struct {
	Scenario string
	Seed     int64
	Passed   bool
	Detail   string
}

// CreateHarnessTables creates the three standard tables on a recorder.
func CreateHarnessTables(r Recorder) {
	r.CreateTable(TransactionTable, TransactionEntry{})
	r.CreateTable(SignalChangeTable, SignalChangeEntry{})
	r.CreateTable(ResultTable, ResultEntry{})
}
