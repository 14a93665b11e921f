package domain

// KeyPrefix namespaces every key this service writes to the shared cache.
const KeyPrefix = "coursedex:"
