package services

import (
	"go.uber.org/zap"

	"eosoracle/internal/logger"
)

// auditService records operator actions as structured log entries.
type auditService struct {
	log *zap.SugaredLogger
}

// NewAuditService creates a new AuditServicer writing to the "audit" logger.
func NewAuditService() AuditServicer {
	return &auditService{log: logger.Named("audit")}
}

// Log records an audit event. It never fails the operation being audited.
func (s *auditService) Log(user, action string, securityID uint64, transactionID, ipAddress string, changes map[string]interface{}) {
	fields := []interface{}{
		"user", user,
		"action", action,
		"security_id", securityID,
		"transaction_id", transactionID,
		"ip_address", ipAddress,
	}
	if len(changes) > 0 {
		fields = append(fields, "changes", changes)
	}
	s.log.Infow("audit", fields...)
}
