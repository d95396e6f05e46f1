package remote

// Consistency is the per-operation replication-acknowledgment level a
// read or write is executed with. Values are the CQL native-protocol
// consistency codes.
type Consistency uint16

const (
	Any         Consistency = 0x00
	One         Consistency = 0x01
	Two         Consistency = 0x02
	Three       Consistency = 0x03
	Quorum      Consistency = 0x04
	All         Consistency = 0x05
	LocalQuorum Consistency = 0x06
	EachQuorum  Consistency = 0x07
	Serial      Consistency = 0x08
	LocalSerial Consistency = 0x09
	LocalOne    Consistency = 0x0A

	// Unknown is returned for names outside the enumerated set. It is
	// never valid to execute with.
	Unknown Consistency = 0xFFFF
)

// DefaultConsistency applies when a table sets no explicit level.
const DefaultConsistency = LocalOne

// ConsistencyFromString maps an option value to its level, or Unknown
// when the name is not one of the enumerated levels. Matching is
// exact: level names are upper case.
func ConsistencyFromString(s string) Consistency {
	switch s {
	case "ANY":
		return Any
	case "ONE":
		return One
	case "TWO":
		return Two
	case "THREE":
		return Three
	case "QUORUM":
		return Quorum
	case "ALL":
		return All
	case "LOCAL_QUORUM":
		return LocalQuorum
	case "EACH_QUORUM":
		return EachQuorum
	case "SERIAL":
		return Serial
	case "LOCAL_SERIAL":
		return LocalSerial
	case "LOCAL_ONE":
		return LocalOne
	default:
		return Unknown
	}
}

func (c Consistency) String() string {
	switch c {
	case Any:
		return "ANY"
	case One:
		return "ONE"
	case Two:
		return "TWO"
	case Three:
		return "THREE"
	case Quorum:
		return "QUORUM"
	case All:
		return "ALL"
	case LocalQuorum:
		return "LOCAL_QUORUM"
	case EachQuorum:
		return "EACH_QUORUM"
	case Serial:
		return "SERIAL"
	case LocalSerial:
		return "LOCAL_SERIAL"
	case LocalOne:
		return "LOCAL_ONE"
	default:
		return "UNKNOWN"
	}
}
