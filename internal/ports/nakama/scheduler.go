package nakama

// oneShot is the actor's single deferred callback. Arming always replaces
// any prior pending token, so a game never has more than one timer in
// flight; firing disarms before the token is returned.
type oneShot struct {
	token string
	due   int64
}

// Arm schedules the token for the given tick, cancelling any prior token.
func (o *oneShot) Arm(token string, due int64) {
	o.token = token
	o.due = due
}

// Cancel clears any pending token.
func (o *oneShot) Cancel() {
	o.token = ""
	o.due = 0
}

// ArmedFor reports whether this exact token is already pending.
func (o *oneShot) ArmedFor(token string) bool {
	return o.token == token
}

// Fire returns the pending token once its tick has arrived, disarming it.
func (o *oneShot) Fire(now int64) (string, bool) {
	if o.token == "" || now < o.due {
		return "", false
	}
	token := o.token
	o.Cancel()
	return token, true
}
