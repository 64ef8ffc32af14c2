package types

type SubscriptionChangeReason string

const (
	SubscriptionChangeReasonCreated              SubscriptionChangeReason = "created"
	SubscriptionChangeReasonRenewed              SubscriptionChangeReason = "renewed"
	SubscriptionChangeReasonUpdated              SubscriptionChangeReason = "updated"
	SubscriptionChangeReasonPaymentMethodUpdated SubscriptionChangeReason = "payment_method_updated"
	SubscriptionChangeReasonPackCategoryUpdated  SubscriptionChangeReason = "pack_category_updated"
	SubscriptionChangeReasonDeleted              SubscriptionChangeReason = "deleted"
	SubscriptionChangeReasonMembersReplaced      SubscriptionChangeReason = "members_replaced"
	SubscriptionChangeReasonMemberAttached       SubscriptionChangeReason = "member_attached"
	SubscriptionChangeReasonMemberDetached       SubscriptionChangeReason = "member_detached"
	SubscriptionChangeReasonPaymentRecorded      SubscriptionChangeReason = "payment_recorded"
	SubscriptionChangeReasonPaymentEdited        SubscriptionChangeReason = "payment_edited"
	SubscriptionChangeReasonPaymentDeleted       SubscriptionChangeReason = "payment_deleted"
	SubscriptionChangeReasonPaymentReconciled    SubscriptionChangeReason = "payment_reconciled"
)

// SubscriptionKind tells an individual subscription from a pack shared by several members.
type SubscriptionKind string

const (
	SubscriptionKindIndividual SubscriptionKind = "individual"
	SubscriptionKindPack       SubscriptionKind = "pack"
)
