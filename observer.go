package rowtable

// RenderObserver is notified about every render pass of a Table.
type RenderObserver interface {
	// RenderPassCompleted is called after a successful pass.
	RenderPassCompleted(table string, stats RenderStats)
	// RenderPassFailed is called after a pass was aborted with err.
	RenderPassFailed(table string, err error)
}

// RenderObserverFuncs implements RenderObserver with optional functions.
type RenderObserverFuncs struct {
	Completed func(table string, stats RenderStats)
	Failed    func(table string, err error)
}

func (f RenderObserverFuncs) RenderPassCompleted(table string, stats RenderStats) {
	if f.Completed != nil {
		f.Completed(table, stats)
	}
}

func (f RenderObserverFuncs) RenderPassFailed(table string, err error) {
	if f.Failed != nil {
		f.Failed(table, err)
	}
}
