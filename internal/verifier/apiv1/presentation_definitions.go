package apiv1

import (
	"fmt"
	"eudiwallet/pkg/model"
	"eudiwallet/pkg/openid4vp"
)

var presentationRequestTypes = map[string]*openid4vp.PresentationRequestType{
	"VCPID": {
		ID:          "VCPID",
		Title:       "VC PID",
		Description: "Request a VC PID",
	},
}

func lookupPresentationRequestTypeFrom(ID string) (*openid4vp.PresentationRequestType, bool) {
	prt, ok := presentationRequestTypes[ID]
	return prt, ok
}

func buildPresentationDefinition(presentationRequestType *openid4vp.PresentationRequestType) (*openid4vp.PresentationDefinition, error) {
	switch presentationRequestType.ID {
	case "VCPID":
		return vcPID(presentationRequestType), nil
	default:
		return nil, fmt.Errorf("presentationRequestType.ID %s is currently not supported", presentationRequestType.ID)
	}
}

func vcPID(requestType *openid4vp.PresentationRequestType) *openid4vp.PresentationDefinition {
	vctList := []string{model.CredentialTypeUrnEudiPid1}

	return &openid4vp.PresentationDefinition{
		ID:          requestType.ID,
		Title:       requestType.Title,
		Description: requestType.Description,
		Selectable:  true, // special field found i db4eu verifier
		InputDescriptors: []openid4vp.InputDescriptor{
			{
				ID:     requestType.ID,
				Format: nil, //todo(masv): fix
				Constraints: openid4vp.Constraints{
					Fields: []openid4vp.Field{
						{Name: "VC type", Path: []string{"$.vct"}, Filter: &openid4vp.Filter{Type: "string", Enum: vctList}},
						{Name: "Family name", Path: []string{"$.family_name"}},
						{Name: "Given name", Path: []string{"$.given_name"}},
						{Name: "Date of birth", Path: []string{"$.birthdate"}},
						{Name: "Place of birth", Path: []string{"$.birth_place"}},
						{Name: "Nationality", Path: []string{"$.nationality"}},
						{Name: "Issuing authority", Path: []string{"$.issuing_authority"}},
						{Name: "Issuing country", Path: []string{"$.issuing_country"}},
						{Name: "Expiry date", Path: []string{"$.expiry_date"}},
					},
				},
			},
		},
	}
}
