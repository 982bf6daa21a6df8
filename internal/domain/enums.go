package domain

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleUser  Role = "user"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[string]bool{
	"admin": true, "staff": true, "user": true,
}

// IsAdmin reports whether the role may use the administrative console.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
)

type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "pending"
	RedemptionApproved  RedemptionStatus = "approved"
	RedemptionRejected  RedemptionStatus = "rejected"
	RedemptionFulfilled RedemptionStatus = "fulfilled"
)

// ValidRedemptionStatuses is the canonical set of accepted redemption status strings.
var ValidRedemptionStatuses = map[string]bool{
	"pending": true, "approved": true, "rejected": true, "fulfilled": true,
}

type ActivityType string

const (
	ActivityWalking         ActivityType = "walking"
	ActivityCycling         ActivityType = "cycling"
	ActivityPublicTransport ActivityType = "public_transport"
	ActivityRecycling       ActivityType = "recycling"
	ActivityEnergySaving    ActivityType = "energy_saving"
)
