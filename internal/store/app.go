package store

// AppState is the process-wide request status shown as the busy indicator.
// It starts Idle and only changes through dispatched actions.
type AppState struct {
	Status        RequestStatus
	Error         *string
	IsInitialized bool
}

func initialAppState() AppState {
	return AppState{Status: StatusIdle}
}

func reduceApp(state AppState, action Action) AppState {
	switch a := action.(type) {
	case AppStatusChanged:
		state.Status = a.Status
	case AppErrorSet:
		if a.Error == nil {
			state.Error = nil
		} else {
			msg := *a.Error
			state.Error = &msg
		}
	case AppInitialized:
		state.IsInitialized = a.Value
	}
	return state
}
