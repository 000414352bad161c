package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// BatchCapacity and BatchReadyThreshold are decimal strings in the
	// same weight unit the catalog reports. The threshold must not exceed
	// the capacity.
	BatchCapacity       string
	BatchReadyThreshold string

	// RegionLockTimeout bounds how long an allocation waits for a
	// contended region, as a Go duration string.
	RegionLockTimeout string

	AddressServiceURL  string
	CatalogServiceURL  string
	DispatchServiceURL string
}
