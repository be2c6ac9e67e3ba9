// Package timer implements the workout timer engine: the state machine
// that drives a user through a single exercise's timed execution.
//
// The engine owns a 100 ms tick loop and advances itself once a phase's
// duration elapses. Remaining time is always recomputed from an
// absolute target timestamp, never decremented per tick, so missed or
// jittery ticks recover the exact remaining time on the next cycle.
package timer

import (
	"math"
	"sync"
	"time"

	"github.com/wabbazzar/shredly2-sub003/internal/models"
)

// Options contains runtime options for the engine. Zero values are
// replaced with defaults by New.
type Options struct {
	TickInterval       time.Duration
	CountdownSeconds   int
	CueFromSeconds     int
	DefaultRepSeconds  int
	DefaultWorkSeconds int
	DefaultRestSeconds int
	MinRestSeconds     int

	// Clock overrides the wall-clock source. Tests inject a fake.
	Clock func() time.Time
}

func (o *Options) setDefaults() {
	if o.TickInterval <= 0 {
		o.TickInterval = 100 * time.Millisecond
	}
	if o.CountdownSeconds <= 0 {
		o.CountdownSeconds = 5
	}
	if o.CueFromSeconds <= 0 {
		o.CueFromSeconds = 3
	}
	if o.DefaultRepSeconds <= 0 {
		o.DefaultRepSeconds = 4
	}
	if o.DefaultWorkSeconds <= 0 {
		o.DefaultWorkSeconds = 45
	}
	if o.DefaultRestSeconds <= 0 {
		o.DefaultRestSeconds = 60
	}
	if o.MinRestSeconds <= 0 {
		o.MinRestSeconds = 10
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
}

// Engine drives one exercise execution at a time. All mutation happens
// under the mutex, inside the tick callback or a public method; no
// transition ever returns an error, and calls in an inapplicable state
// are silent no-ops.
type Engine struct {
	mu       sync.Mutex
	opts     Options
	clock    func() time.Time
	exercise *models.LiveExercise
	profile  Profile
	state    State

	// resumeFrom and resumeRemaining record the phase suspended by
	// Pause. countdownNext records the phase a running countdown
	// leads into. lastWholeSecond detects whole-second boundary
	// crossings for audio cues.
	resumeFrom      Phase
	resumeRemaining float64
	countdownNext   Phase
	lastWholeSecond int

	subs      map[int]func(Event)
	nextSubID int

	stopCh  chan struct{}
	ticking bool
}

// New creates an engine. Callers own the instance; typical deployments
// use one per active session.
func New(opts Options) *Engine {
	opts.setDefaults()
	return &Engine{
		opts:  opts,
		clock: opts.Clock,
		state: State{Mode: ModeCountdown, Phase: PhaseIdle, AudioEnabled: true},
		subs:  make(map[int]func(Event)),
	}
}

// Subscribe registers an observer callback, invoked synchronously for
// every emitted event. The returned function unsubscribes it.
func (e *Engine) Subscribe(fn func(Event)) func() {
	e.mu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.subs[id] = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// State returns a snapshot of the current execution state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Config returns the active execution profile.
func (e *Engine) Config() Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile
}

// SetAudioEnabled toggles audio cue emission metadata carried on the
// state snapshot. The engine still emits cue events; players check the
// flag.
func (e *Engine) SetAudioEnabled(enabled bool) {
	e.mu.Lock()
	e.state.AudioEnabled = enabled
	e.mu.Unlock()
}

// InitializeForExercise loads the profile and duration configuration
// for one exercise and resets the state machine to idle. It must be
// called before Start.
func (e *Engine) InitializeForExercise(ex *models.LiveExercise) {
	if ex == nil {
		return
	}
	e.mu.Lock()
	e.disarmLocked()

	prev := e.state.Phase
	audio := e.state.AudioEnabled
	p := ResolveProfile(ex.Type)

	sets := ex.Sets
	if sets < 1 {
		sets = 1
	}
	st := State{
		Mode:              p.Mode,
		Phase:             PhaseIdle,
		ExerciseType:      ex.Type,
		CurrentSet:        1,
		TotalSets:         sets,
		TotalSubExercises: len(ex.SubExercises),
		AudioEnabled:      audio,
	}
	dur := workDuration(ex, 0, p, e.opts)
	st.TotalSeconds = float64(dur)
	st.RemainingSeconds = float64(dur)
	if isBlockType(ex.Type) {
		st.TotalMinutes = (dur + 59) / 60
	}

	e.exercise = ex
	e.profile = p
	e.state = st
	e.resumeFrom = ""
	e.countdownNext = ""

	events := []Event{{Type: EventPhaseChange, State: e.state, PreviousPhase: prev}}
	e.mu.Unlock()
	e.dispatch(events)
}

// Start begins execution from idle (or restarts the current phase from
// paused), entering a dedicated countdown first when the profile asks
// for one. A no-op when no exercise is loaded or the phase does not
// permit starting.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.exercise == nil || (e.state.Phase != PhaseIdle && e.state.Phase != PhasePaused) {
		e.mu.Unlock()
		return
	}
	var events []Event
	now := e.clock()
	e.resumeFrom = ""
	if e.profile.CountdownBefore == BeforeWork {
		e.beginCountdownLocked(now, PhaseWork, &events)
	} else {
		e.beginWorkLocked(now, &events)
	}
	e.armLocked()
	e.mu.Unlock()
	e.dispatch(events)
}

// Pause freezes the timer, recording the phase and remaining time to
// resume into. Only work, rest, and countdown can be paused.
func (e *Engine) Pause() {
	e.mu.Lock()
	switch e.state.Phase {
	case PhaseWork, PhaseRest, PhaseCountdown:
	default:
		e.mu.Unlock()
		return
	}
	now := e.clock()
	if e.state.Mode == ModeCountUp && e.state.Phase == PhaseWork {
		elapsed := now.Sub(e.state.Target).Seconds()
		if elapsed < 0 {
			elapsed = 0
		}
		e.resumeRemaining = elapsed
		e.state.RemainingSeconds = elapsed
	} else {
		remaining := e.state.Target.Sub(now).Seconds()
		if remaining < 0 {
			remaining = 0
		}
		e.resumeRemaining = remaining
		e.state.RemainingSeconds = remaining
	}
	e.resumeFrom = e.state.Phase
	e.disarmLocked()

	var events []Event
	e.setPhaseLocked(PhasePaused, &events)
	e.mu.Unlock()
	e.dispatch(events)
}

// Resume unfreezes a paused timer. A new target timestamp is computed
// from the stored remaining time, never from the original duration, so
// no elapsed time is lost or double-counted across the pause.
func (e *Engine) Resume() {
	e.mu.Lock()
	if e.state.Phase != PhasePaused || e.resumeFrom == "" {
		// Pausing from idle is guarded, so a missing resume phase
		// means nothing was suspended.
		e.mu.Unlock()
		return
	}
	now := e.clock()
	if e.state.Mode == ModeCountUp && e.resumeFrom == PhaseWork {
		e.state.Target = now.Add(-secs(e.resumeRemaining))
		e.lastWholeSecond = int(e.resumeRemaining)
	} else {
		e.state.Target = now.Add(secs(e.resumeRemaining))
		e.lastWholeSecond = wholeSecondsLeft(e.resumeRemaining)
	}
	e.state.RemainingSeconds = e.resumeRemaining

	var events []Event
	e.setPhaseLocked(e.resumeFrom, &events)
	e.resumeFrom = ""
	e.armLocked()
	e.mu.Unlock()
	e.dispatch(events)
}

// Skip forces the current phase to complete immediately, bypassing the
// remaining time. During an EMOM or AMRAP work block it advances to the
// next minute instead, unless already on the final minute.
func (e *Engine) Skip() {
	e.mu.Lock()
	var events []Event
	now := e.clock()
	switch e.state.Phase {
	case PhaseCountdown:
		e.finishCountdownLocked(now, &events)
	case PhaseWork:
		if isBlockMinuteType(e.state.ExerciseType) && e.state.CurrentMinute < e.state.TotalMinutes {
			e.advanceMinuteLocked(now, &events)
		} else {
			e.completeWorkLocked(now, &events)
		}
	case PhaseRest:
		e.completeRestLocked(now, &events)
	default:
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	e.dispatch(events)
}

// Stop cancels execution and returns to idle, clearing the exercise
// reference. The audio preference survives the reset.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.state.Phase == PhaseIdle {
		e.mu.Unlock()
		return
	}
	e.disarmLocked()
	prev := e.state.Phase
	audio := e.state.AudioEnabled
	e.exercise = nil
	e.profile = Profile{}
	e.state = State{Mode: ModeCountdown, Phase: PhaseIdle, AudioEnabled: audio}
	e.resumeFrom = ""
	e.countdownNext = ""

	events := []Event{{Type: EventPhaseChange, State: e.state, PreviousPhase: prev}}
	e.mu.Unlock()
	e.dispatch(events)
}

// EnterDataEntry suspends timing for set logging. Reachable from work,
// rest, and countdown.
func (e *Engine) EnterDataEntry() {
	e.mu.Lock()
	switch e.state.Phase {
	case PhaseWork, PhaseRest, PhaseCountdown:
	default:
		e.mu.Unlock()
		return
	}
	var events []Event
	e.enterEntryLocked(&events)
	e.mu.Unlock()
	e.dispatch(events)
}

// ExitDataEntry leaves the data-entry phase. Set-by-set exercises move
// into rest (or straight into the next set when the profile has no rest
// phase); block exercises complete, since the block's duration already
// covered the whole session.
func (e *Engine) ExitDataEntry() {
	e.mu.Lock()
	if e.state.Phase != PhaseEntry {
		e.mu.Unlock()
		return
	}
	var events []Event
	now := e.clock()
	switch {
	case e.profile.LogTiming != LogAfterEachSet:
		e.completeExerciseLocked(&events)
	case e.state.CurrentSet >= e.state.TotalSets:
		e.completeExerciseLocked(&events)
	case e.profile.HasRestPhase():
		e.beginRestLocked(now, &events)
		e.armLocked()
	default:
		e.state.CurrentSet++
		e.beginNextWorkLocked(now, &events)
		e.armLocked()
	}
	e.mu.Unlock()
	e.dispatch(events)
}

// --- tick loop ---

func (e *Engine) armLocked() {
	if e.ticking {
		return
	}
	e.ticking = true
	e.stopCh = make(chan struct{})
	go e.run(e.stopCh)
}

func (e *Engine) disarmLocked() {
	if !e.ticking {
		return
	}
	close(e.stopCh)
	e.ticking = false
}

func (e *Engine) run(stop chan struct{}) {
	ticker := time.NewTicker(e.opts.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *Engine) tick() {
	e.mu.Lock()
	switch e.state.Phase {
	case PhaseCountdown, PhaseWork, PhaseRest:
	default:
		e.mu.Unlock()
		return
	}
	var events []Event
	now := e.clock()
	if e.state.Mode == ModeCountUp && e.state.Phase == PhaseWork {
		e.tickCountUpLocked(now, &events)
	} else {
		e.tickCountdownLocked(now, &events)
	}
	e.mu.Unlock()
	e.dispatch(events)
}

func (e *Engine) tickCountUpLocked(now time.Time, events *[]Event) {
	elapsed := now.Sub(e.state.Target).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	e.state.RemainingSeconds = elapsed

	if e.state.TotalSeconds > 0 && elapsed >= e.state.TotalSeconds {
		e.completeWorkLocked(now, events)
		return
	}

	whole := int(elapsed)
	if whole != e.lastWholeSecond {
		e.lastWholeSecond = whole
		if e.profile.MinuteMarkers && whole > 0 && whole%60 == 0 {
			e.state.CurrentMinute = whole/60 + 1
			*events = append(*events, Event{Type: EventMinuteMarker, State: e.state})
		}
	}
	*events = append(*events, Event{Type: EventTick, State: e.state})
}

func (e *Engine) tickCountdownLocked(now time.Time, events *[]Event) {
	remaining := e.state.Target.Sub(now).Seconds()
	if remaining < 0 {
		remaining = 0
	}
	e.state.RemainingSeconds = remaining

	whole := wholeSecondsLeft(remaining)
	if whole < e.lastWholeSecond {
		e.lastWholeSecond = whole
		e.emitCountdownCuesLocked(whole, events)
	}

	// EMOM/AMRAP minute boundaries arrive before the block's own end.
	if e.state.Phase == PhaseWork && isBlockMinuteType(e.state.ExerciseType) && remaining > 0 {
		elapsed := e.state.TotalSeconds - remaining
		if int(elapsed/60)+1 > e.state.CurrentMinute && e.state.CurrentMinute < e.state.TotalMinutes {
			e.advanceMinuteLocked(now, events)
			*events = append(*events, Event{Type: EventTick, State: e.state})
			return
		}
	}

	if remaining <= 0 {
		// Phase completion replaces the generic tick for this cycle.
		switch e.state.Phase {
		case PhaseCountdown:
			e.finishCountdownLocked(now, events)
		case PhaseWork:
			e.completeWorkLocked(now, events)
		case PhaseRest:
			e.completeRestLocked(now, events)
		}
		return
	}
	*events = append(*events, Event{Type: EventTick, State: e.state})
}

// emitCountdownCuesLocked fires 3-2-1 cues on whole-second boundaries,
// but only in the phase where audio is appropriate: always during a
// dedicated countdown; during rest only when the pre-work warning rides
// the rest phase; during work only when it does not.
func (e *Engine) emitCountdownCuesLocked(whole int, events *[]Event) {
	if whole >= 1 && whole <= e.opts.CueFromSeconds && e.cueAllowedLocked() {
		*events = append(*events, Event{Type: EventCountdownTick, State: e.state, CountdownValue: whole})
		return
	}
	if e.state.Phase == PhaseWork && e.profile.CountdownAtMinuteEnd && whole > 0 {
		elapsed := int(e.state.TotalSeconds) - whole
		if elapsed >= 0 {
			left := 60 - elapsed%60
			if left >= 1 && left <= e.opts.CueFromSeconds {
				*events = append(*events, Event{Type: EventCountdownTick, State: e.state, CountdownValue: left})
			}
		}
	}
}

func (e *Engine) cueAllowedLocked() bool {
	switch e.state.Phase {
	case PhaseCountdown:
		return true
	case PhaseRest:
		return e.profile.CountdownBeforeWork
	case PhaseWork:
		return !e.profile.CountdownBeforeWork
	}
	return false
}

// --- transitions ---

func (e *Engine) setPhaseLocked(p Phase, events *[]Event) {
	prev := e.state.Phase
	e.state.Phase = p
	*events = append(*events, Event{Type: EventPhaseChange, State: e.state, PreviousPhase: prev})
}

func (e *Engine) beginCountdownLocked(now time.Time, next Phase, events *[]Event) {
	d := e.opts.CountdownSeconds
	e.countdownNext = next
	e.state.TotalSeconds = float64(d)
	e.state.RemainingSeconds = float64(d)
	e.state.Target = now.Add(secs(float64(d)))
	e.lastWholeSecond = d
	e.setPhaseLocked(PhaseCountdown, events)
}

func (e *Engine) finishCountdownLocked(now time.Time, events *[]Event) {
	next := e.countdownNext
	e.countdownNext = ""
	if next == PhaseRest {
		e.beginRestLocked(now, events)
		return
	}
	e.beginWorkLocked(now, events)
}

func (e *Engine) beginWorkLocked(now time.Time, events *[]Event) {
	dur := workDuration(e.exercise, e.state.CurrentSubExercise, e.profile, e.opts)
	e.state.TotalSeconds = float64(dur)
	if e.state.Mode == ModeCountUp {
		e.state.Target = now
		e.state.RemainingSeconds = 0
		e.lastWholeSecond = 0
	} else {
		e.state.Target = now.Add(secs(float64(dur)))
		e.state.RemainingSeconds = float64(dur)
		e.lastWholeSecond = dur
	}
	if isBlockType(e.state.ExerciseType) {
		e.state.TotalMinutes = (dur + 59) / 60
		e.state.CurrentMinute = 1
	}
	e.setPhaseLocked(PhaseWork, events)
}

// beginNextWorkLocked starts the next work phase, through a dedicated
// countdown when the profile configures one.
func (e *Engine) beginNextWorkLocked(now time.Time, events *[]Event) {
	if e.profile.CountdownBefore == BeforeWork {
		e.beginCountdownLocked(now, PhaseWork, events)
		return
	}
	e.beginWorkLocked(now, events)
}

func (e *Engine) beginRestLocked(now time.Time, events *[]Event) {
	dur := restDuration(e.exercise, e.state.CurrentSubExercise, e.opts)
	e.state.TotalSeconds = float64(dur)
	e.state.RemainingSeconds = float64(dur)
	e.state.Target = now.Add(secs(float64(dur)))
	e.lastWholeSecond = dur
	e.setPhaseLocked(PhaseRest, events)
}

func (e *Engine) completeWorkLocked(now time.Time, events *[]Event) {
	if e.profile.LogTiming == LogAfterEachSet {
		// Logging happens before rest, while the set is fresh.
		e.state.RemainingSeconds = 0
		*events = append(*events, Event{Type: EventSetComplete, State: e.state})
		e.enterEntryLocked(events)
		return
	}

	if e.state.ExerciseType == models.TypeInterval && e.profile.HasRestPhase() {
		switch {
		case e.state.CurrentSubExercise+1 < e.state.TotalSubExercises:
			e.state.CurrentSubExercise++
			if e.profile.WorkCompleteChime {
				*events = append(*events, Event{Type: EventWorkComplete, State: e.state})
			}
			e.beginRestLocked(now, events)
			return
		case e.state.CurrentSet < e.state.TotalSets:
			e.state.CurrentSubExercise = 0
			e.state.CurrentSet++
			if e.profile.WorkCompleteChime {
				*events = append(*events, Event{Type: EventWorkComplete, State: e.state})
			}
			e.beginRestLocked(now, events)
			return
		}
	}

	// Block completion: the block's duration was the whole session.
	e.state.RemainingSeconds = 0
	*events = append(*events, Event{Type: EventSetComplete, State: e.state})
	e.enterEntryLocked(events)
}

func (e *Engine) completeRestLocked(now time.Time, events *[]Event) {
	if e.profile.LogTiming == LogAfterEachSet {
		e.state.CurrentSet++
		if e.state.CurrentSet > e.state.TotalSets {
			e.completeExerciseLocked(events)
			return
		}
		e.beginNextWorkLocked(now, events)
		return
	}

	if e.state.ExerciseType == models.TypeInterval {
		// The pre-work countdown already played in the rest tail when
		// CountdownBeforeWork is set, so no dedicated countdown phase.
		if e.profile.CountdownBeforeWork {
			e.beginWorkLocked(now, events)
		} else {
			e.beginNextWorkLocked(now, events)
		}
		return
	}

	// Defensive: block types normally have no discrete rest phase.
	e.state.CurrentSet++
	if e.state.CurrentSet > e.state.TotalSets {
		e.completeExerciseLocked(events)
		return
	}
	e.beginNextWorkLocked(now, events)
}

func (e *Engine) advanceMinuteLocked(now time.Time, events *[]Event) {
	e.state.CurrentMinute++
	if e.state.ExerciseType == models.TypeEMOM && e.state.TotalSubExercises > 0 {
		e.state.CurrentSubExercise = (e.state.CurrentMinute - 1) % e.state.TotalSubExercises
	}
	remaining := e.state.TotalSeconds - float64((e.state.CurrentMinute-1)*60)
	if remaining < 0 {
		remaining = 0
	}
	// Snap to the minute boundary so jitter does not accumulate across
	// minutes.
	e.state.RemainingSeconds = remaining
	e.state.Target = now.Add(secs(remaining))
	e.lastWholeSecond = wholeSecondsLeft(remaining)
	*events = append(*events, Event{Type: EventMinuteMarker, State: e.state})
}

func (e *Engine) enterEntryLocked(events *[]Event) {
	e.state.RemainingSeconds = 0
	e.disarmLocked()
	e.setPhaseLocked(PhaseEntry, events)
}

func (e *Engine) completeExerciseLocked(events *[]Event) {
	e.disarmLocked()
	e.state.RemainingSeconds = 0
	e.setPhaseLocked(PhaseComplete, events)
	*events = append(*events, Event{Type: EventExerciseComplete, State: e.state})
}

// --- event delivery ---

func (e *Engine) dispatch(events []Event) {
	if len(events) == 0 {
		return
	}
	e.mu.Lock()
	fns := make([]func(Event), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, ev := range events {
		for _, fn := range fns {
			fn(ev)
		}
	}
}

// --- helpers ---

func isBlockType(t models.ExerciseType) bool {
	return t == models.TypeEMOM || t == models.TypeAMRAP || t == models.TypeCircuit
}

func isBlockMinuteType(t models.ExerciseType) bool {
	return t == models.TypeEMOM || t == models.TypeAMRAP
}

func wholeSecondsLeft(remaining float64) int {
	return int(math.Ceil(remaining - 1e-9))
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
