package app

const TopicAuditEventCreated = "audit:event:created"
const TopicAlertCreated = "alert:created"
const TopicAlertResolved = "alert:resolved"
const TopicAlertNotification = "alert:notification"
