package command

import "context"

// Call captures one recorded invocation.
type Call struct {
	// Args is the argument vector passed to Run.
	Args []string
	// Env is the environment overlay passed to Run.
	Env map[string]string
}

// Recorder is a Runner test double that records invocations instead of
// executing them. It is shared by tests across the repository.
type Recorder struct {
	// Calls lists every invocation in order.
	Calls []Call
	// Err, if set, is returned from every Run call.
	Err error
	// Output is returned from every Run call.
	Output []byte
}

// Run records the invocation and returns the scripted result.
func (r *Recorder) Run(_ context.Context, args []string, env map[string]string) ([]byte, error) {
	r.Calls = append(r.Calls, Call{Args: args, Env: env})

	return r.Output, r.Err
}
