package model

// Request is the body shape of every mutating OLT call.
type Request struct {
	Method string `json:"method"`
	Param  any    `json:"param"`
}

// LoginParam carries the credential digest for the login exchange. The
// captcha fields must be present and empty.
type LoginParam struct {
	Name     string `json:"name"`
	Key      string `json:"key"`
	Value    string `json:"value"`
	CaptchaV string `json:"captcha_v"`
	CaptchaF string `json:"captcha_f"`
}

// GponMutationParam drives reboot (flags 4) and rename (flags 8) on GPON.
// Identifier is the routing handle from the offline/auth table.
type GponMutationParam struct {
	Identifier     int    `json:"identifier"`
	Flags          int    `json:"flags"`
	OntName        string `json:"ont_name"`
	OntDescription string `json:"ont_description"`
}

// EponMutationParam drives reboot (flags 1) and rename (flags 8) on EPON,
// keyed by the PON port address.
type EponMutationParam struct {
	PortID  int    `json:"port_id"`
	OnuID   int    `json:"onu_id"`
	Flags   int    `json:"flags"`
	FecMode int    `json:"fec_mode"`
	OnuName string `json:"onu_name,omitempty"`
}
