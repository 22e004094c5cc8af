/*
engine.go - Engine assembly

PURPOSE:
  Wires the registry, ledgers, accountant, registrar and aggregator over a
  set of store implementations, sharing one per-user lock set so that every
  mutating path for a given user is serialized through the same mutex.
*/
package attendance

// Stores bundles the three persistence contracts an Engine runs on. A single
// struct (like the sqlite store) may implement all three.
type Stores struct {
	Shifts  ShiftStore
	Records RecordStore
	Debts   DebtStore
}

// Engine is the fully wired core: the operation set the presentation
// collaborator invokes.
type Engine struct {
	Registry   *ShiftRegistry
	Ledger     *AttendanceLedger
	Debts      *DebtLedger
	Accountant *ShiftAccountant
	Vacations  *VacationRegistrar
	Reports    *ReportAggregator
}

func NewEngine(stores Stores) *Engine {
	locks := newUserLocks()
	registry := NewShiftRegistry(stores.Shifts)
	ledger := NewAttendanceLedger(stores.Records)
	debts := NewDebtLedger(stores.Debts)

	return &Engine{
		Registry:   registry,
		Ledger:     ledger,
		Debts:      debts,
		Accountant: NewShiftAccountant(registry, ledger, debts, locks),
		Vacations:  NewVacationRegistrar(ledger, locks),
		Reports:    NewReportAggregator(ledger),
	}
}
