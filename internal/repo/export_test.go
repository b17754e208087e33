package repo

var IsUniqueViolation = isUniqueViolation
