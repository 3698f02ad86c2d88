package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/procurement-allocation/internal/domain"
)

// JobKind operación que ejecuta el job.
type JobKind string

const (
	JobAllocate JobKind = "allocate"
	JobReset    JobKind = "reset"
)

// JobState estado del job.
type JobState string

const (
	JobPending   JobState = "pending"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
	JobCancelled JobState = "cancelled"
)

// Job ejecución explícita de una escritura multi-documento (saga). Lleva su propio estado,
// la lista ordenada de pasos completados y la señal de cancelación del contexto del llamador.
// No se comparte entre goroutines.
type Job struct {
	ID         string
	Kind       JobKind
	State      JobState
	Steps      []string
	StartedAt  time.Time
	FinishedAt time.Time

	ctx context.Context
}

// NewJob crea un job pendiente atado al contexto del llamador.
func NewJob(ctx context.Context, kind JobKind, now time.Time) *Job {
	return &Job{
		ID:        uuid.New().String(),
		Kind:      kind,
		State:     JobPending,
		StartedAt: now,
		ctx:       ctx,
	}
}

// Begin marca el inicio de las escrituras. La cancelación solo se respeta aquí: una vez iniciada,
// la saga corre hasta terminar o fallar. Devuelve el contexto a usar para las escrituras.
func (j *Job) Begin(now time.Time) (context.Context, error) {
	if err := j.ctx.Err(); err != nil {
		j.State = JobCancelled
		j.FinishedAt = now
		return nil, err
	}
	j.State = JobRunning
	return context.WithoutCancel(j.ctx), nil
}

// Done registra un paso completado.
func (j *Job) Done(step string) {
	j.Steps = append(j.Steps, step)
}

// Fail cierra el job con error y devuelve el PersistenceError con los pasos que sí quedaron aplicados.
func (j *Job) Fail(step string, err error, now time.Time) *domain.PersistenceError {
	j.State = JobFailed
	j.FinishedAt = now
	return &domain.PersistenceError{
		Step:      step,
		Completed: append([]string(nil), j.Steps...),
		Err:       err,
	}
}

// Complete cierra el job con éxito.
func (j *Job) Complete(now time.Time) {
	j.State = JobCompleted
	j.FinishedAt = now
}
