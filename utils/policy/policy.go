// Package policy decides whether an actor may perform an action on a
// resource. Decisions come from a static table; ownership of applications is
// enforced by the queries that load them, not here.
package policy

import "github.com/sahilchouksey/admissions-api/utils/apperror"

// Actor is the caller as far as permissions are concerned
type Actor struct {
	UserID        uint
	Authenticated bool
	IsStaff       bool
}

// Anonymous is the actor for requests without a valid token
var Anonymous = Actor{}

// Action is what the actor wants to do
type Action string

const (
	Read   Action = "read"
	Create Action = "create"
	Update Action = "update"
	Delete Action = "delete"
)

// Resource is what the action targets
type Resource string

const (
	University     Resource = "university"
	Program        Resource = "program"
	Application    Resource = "application"
	MyUniversities Resource = "my_universities"
	Dashboard      Resource = "dashboard"
	Profile        Resource = "profile"
	AuditLog       Resource = "audit_log"
	Account        Resource = "account"
)

// Decision is the outcome of Decide
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

type rule func(Actor) Decision

func public(Actor) Decision { return Allow }

func authenticated(a Actor) Decision { return Decision(a.Authenticated) }

func staffOnly(a Actor) Decision { return Decision(a.Authenticated && a.IsStaff) }

type key struct {
	action   Action
	resource Resource
}

var table = map[key]rule{
	{Read, University}:   public,
	{Create, University}: staffOnly,
	{Update, University}: staffOnly,
	{Delete, University}: staffOnly,

	{Read, Program}:   public,
	{Create, Program}: staffOnly,
	{Update, Program}: staffOnly,
	{Delete, Program}: staffOnly,

	// Staff get no override on applications
	{Read, Application}:   authenticated,
	{Create, Application}: authenticated,
	{Update, Application}: authenticated,
	{Delete, Application}: authenticated,

	{Read, MyUniversities}: staffOnly,
	{Read, Dashboard}:      authenticated,
	{Read, Profile}:        authenticated,
	{Update, Profile}:      authenticated,

	{Read, AuditLog}:  staffOnly,
	{Read, Account}:   staffOnly,
	{Update, Account}: staffOnly,
}

// Decide looks up the rule for action on resource. Unknown pairs are denied.
func Decide(actor Actor, action Action, resource Resource) Decision {
	r, ok := table[key{action, resource}]
	if !ok {
		return Deny
	}
	return r(actor)
}

// Authorize is Decide expressed as an error: nil when allowed, an AuthError
// for anonymous callers and a PermissionError for everyone else.
func Authorize(actor Actor, action Action, resource Resource) error {
	if Decide(actor, action, resource) == Allow {
		return nil
	}
	if !actor.Authenticated {
		return &apperror.AuthError{Reason: apperror.ReasonNotAuthenticated}
	}
	if resource == MyUniversities {
		return &apperror.PermissionError{Message: "Only staff members can view this"}
	}
	return &apperror.PermissionError{Message: "You do not have permission to perform this action."}
}
