package lifecycle

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/model"
)

// Op names a controller operation.
type Op string

const (
	OpCreate       Op = "create"
	OpUpdateFields Op = "update"
	OpChangeStatus Op = "status"
	OpSchedule     Op = "schedule"
	OpReschedule   Op = "reschedule"
	OpDelete       Op = "delete"
)

// User-facing messages.
const (
	MsgTalkNotFound       = "Le talk n'a pas été trouvé."
	MsgStatusForbidden    = "Vous n'avez pas les droits pour modifier ce talk."
	MsgTalkLocked         = "Le talk ne peut plus être modifié."
	MsgUnexpected         = "Une erreur inattendue est survenue."
	MsgScheduleIncomplete = "Veuillez remplir tous les champs de planification."
	MsgScheduleConflict   = "Conflit : salle ou créneau déjà pris."
	MsgScheduleForbidden  = "Vous n'avez pas les droits pour planifier ce talk."
	MsgScheduleInvalid    = "Données de planification invalides."
	MsgScheduleFailed     = "Erreur lors de la planification."
	MsgUpdateForbidden    = "Vous n'avez pas l'autorisation de modifier ce talk."
	MsgUpdateFailed       = "Une erreur s'est produite."
	MsgDeleteFailed       = "Erreur lors de la suppression du talk."
	MsgCreateInvalid      = "Veuillez corriger les champs indiqués."
	MsgCreateFailed       = "Erreur lors de la création du talk."
	MsgUnknownStatus      = "Statut inconnu."
)

// Error is the failure of one operation, carrying the message to show.
// Status is the API status code, or apiclient.StatusTransport when the API
// was not reached or not called at all.
type Error struct {
	Op      Op
	Status  int
	Message string
	Fields  model.FieldErrors
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lifecycle %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("lifecycle %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the user-facing message of err, or MsgUnexpected when err
// did not come from the controller.
func Message(err error) string {
	var le *Error
	if errors.As(err, &le) {
		return le.Message
	}
	return MsgUnexpected
}

// IsUnauthorized reports whether the API rejected the session token.
func IsUnauthorized(err error) bool {
	var le *Error
	return errors.As(err, &le) && le.Status == http.StatusUnauthorized
}

func local(op Op, msg string) *Error {
	return &Error{Op: op, Status: apiclient.StatusTransport, Message: msg}
}

// describe maps an API failure of op onto its message.
func describe(op Op, err error) *Error {
	code := apiclient.StatusCode(err)
	return &Error{Op: op, Status: code, Message: message(op, code, apiclient.Detail(err)), Err: err}
}

func message(op Op, code int, detail string) string {
	switch op {
	case OpChangeStatus:
		switch code {
		case http.StatusNotFound:
			return MsgTalkNotFound
		case http.StatusForbidden:
			return MsgStatusForbidden
		case http.StatusBadRequest:
			return MsgTalkLocked
		}
		return MsgUnexpected
	case OpSchedule, OpReschedule:
		switch code {
		case http.StatusConflict:
			return MsgScheduleConflict
		case http.StatusForbidden:
			return MsgScheduleForbidden
		case http.StatusNotFound:
			return MsgTalkNotFound
		case http.StatusBadRequest:
			if detail != "" {
				return detail
			}
			return MsgScheduleInvalid
		}
		return MsgScheduleFailed
	case OpUpdateFields:
		switch code {
		case http.StatusForbidden:
			return MsgUpdateForbidden
		case http.StatusBadRequest:
			return MsgTalkLocked
		}
		return MsgUpdateFailed
	case OpDelete:
		return MsgDeleteFailed
	case OpCreate:
		if code == http.StatusBadRequest || code == http.StatusUnprocessableEntity {
			if detail != "" {
				return detail
			}
			return MsgCreateInvalid
		}
		return MsgCreateFailed
	}
	return MsgUnexpected
}
