package migration

// Subscriber dispatches events to typed handlers.
type Subscriber struct {
	snapshotHandler   func(SnapshotParsed)
	aggregatedHandler func(DelegationsAggregated)
	supplyHandler     func(SupplyAdjusted)
	classifiedHandler func(AccountsClassified)
	scheduleHandler   func(VestingScheduleBuilt)
	writtenHandler    func(GenesisWritten)
	ledgerHandler     func(LedgerRecordFailed)
}

// OnSnapshotParsed sets the handler for SnapshotParsed events
func OnSnapshotParsed(fn func(SnapshotParsed)) func(*Subscriber) {
	return func(s *Subscriber) { s.snapshotHandler = fn }
}

// OnDelegationsAggregated sets the handler for DelegationsAggregated events
func OnDelegationsAggregated(fn func(DelegationsAggregated)) func(*Subscriber) {
	return func(s *Subscriber) { s.aggregatedHandler = fn }
}

// OnSupplyAdjusted sets the handler for SupplyAdjusted events
func OnSupplyAdjusted(fn func(SupplyAdjusted)) func(*Subscriber) {
	return func(s *Subscriber) { s.supplyHandler = fn }
}

// OnAccountsClassified sets the handler for AccountsClassified events
func OnAccountsClassified(fn func(AccountsClassified)) func(*Subscriber) {
	return func(s *Subscriber) { s.classifiedHandler = fn }
}

// OnVestingScheduleBuilt sets the handler for VestingScheduleBuilt events
func OnVestingScheduleBuilt(fn func(VestingScheduleBuilt)) func(*Subscriber) {
	return func(s *Subscriber) { s.scheduleHandler = fn }
}

// OnGenesisWritten sets the handler for GenesisWritten events
func OnGenesisWritten(fn func(GenesisWritten)) func(*Subscriber) {
	return func(s *Subscriber) { s.writtenHandler = fn }
}

// OnLedgerRecordFailed sets the handler for LedgerRecordFailed events
func OnLedgerRecordFailed(fn func(LedgerRecordFailed)) func(*Subscriber) {
	return func(s *Subscriber) { s.ledgerHandler = fn }
}

// NewSubscriber creates a Subscriber with the given options and returns its
// dispatch function, suitable for WithEventHandler. Dispatch is synchronous:
// each handler returns before the pipeline moves on.
//
// Example:
//
//	svc := migration.NewService(params, migration.WithEventHandler(
//	  migration.NewSubscriber(
//	    migration.OnSupplyAdjusted(func(e migration.SupplyAdjusted) { ... }),
//	  ),
//	))
func NewSubscriber(opts ...func(*Subscriber)) func(Event) {
	s := &Subscriber{
		snapshotHandler:   func(SnapshotParsed) {},        // nop by default
		aggregatedHandler: func(DelegationsAggregated) {}, // nop by default
		supplyHandler:     func(SupplyAdjusted) {},        // nop by default
		classifiedHandler: func(AccountsClassified) {},    // nop by default
		scheduleHandler:   func(VestingScheduleBuilt) {},  // nop by default
		writtenHandler:    func(GenesisWritten) {},        // nop by default
		ledgerHandler:     func(LedgerRecordFailed) {},    // nop by default
	}

	for _, opt := range opts {
		opt(s)
	}

	return s.dispatch
}

func (s *Subscriber) dispatch(ev Event) {
	switch e := ev.(type) {
	case SnapshotParsed:
		s.snapshotHandler(e)
	case DelegationsAggregated:
		s.aggregatedHandler(e)
	case SupplyAdjusted:
		s.supplyHandler(e)
	case AccountsClassified:
		s.classifiedHandler(e)
	case VestingScheduleBuilt:
		s.scheduleHandler(e)
	case GenesisWritten:
		s.writtenHandler(e)
	case LedgerRecordFailed:
		s.ledgerHandler(e)
	}
}
