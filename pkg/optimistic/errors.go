package optimistic

import (
	"errors"
	"strings"
)

// Op names the mutation that failed.
type Op string

// Mutation kinds.
const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
)

// Errors returned before any persistence call is made.
var (
	ErrNotConfirmed = errors.New("item is not confirmed yet")
	ErrNoServerID   = errors.New("persisted item has no server ID")
)

// PersistenceError reports a persistence call that failed. By the time it
// is returned the list has already rolled the mutation back. Error returns
// the user-facing Message; the cause is available through errors.Unwrap.
type PersistenceError struct {
	Op      Op
	ID      string
	Message string
	Err     error
}

func (e *PersistenceError) Error() string { return e.Message }

func (e *PersistenceError) Unwrap() error { return e.Err }

// Messages holds the user-facing failure text for each mutation kind.
type Messages struct {
	Save   string
	Update string
	Delete string
}

// Message presets by language.
var (
	MessagesEN = Messages{
		Save:   "save failed, please retry",
		Update: "update failed",
		Delete: "delete failed",
	}
	MessagesRU = Messages{
		Save:   "не удалось сохранить, повторите попытку",
		Update: "не удалось обновить",
		Delete: "не удалось удалить",
	}
	MessagesUZ = Messages{
		Save:   "saqlab bo'lmadi, qayta urinib ko'ring",
		Update: "yangilab bo'lmadi",
		Delete: "o'chirib bo'lmadi",
	}
)

// MessagesFor returns the preset for a language code ("en", "ru", "uz"),
// falling back to English.
func MessagesFor(lang string) Messages {
	switch strings.ToLower(lang) {
	case "ru":
		return MessagesRU
	case "uz":
		return MessagesUZ
	default:
		return MessagesEN
	}
}

func (m Messages) forOp(op Op) string {
	switch op {
	case OpAdd:
		return m.Save
	case OpUpdate:
		return m.Update
	default:
		return m.Delete
	}
}
