package jira

import "encoding/json"

type issueFields struct {
	IssueType struct {
		Name string `json:"name"`
	} `json:"issuetype"`
	Status struct {
		Name           string `json:"name"`
		StatusCategory struct {
			Key string `json:"key"`
		} `json:"statusCategory"`
	} `json:"status"`
	OriginalEstimate *int64 `json:"timeoriginalestimate"`
	TimeSpent        *int64 `json:"timespent"`
}

// normalize flattens a raw issue into the Issue record. The role custom
// field is looked up by its configured id, since its key differs between
// instances the fields object is decoded a second time as a generic map.
func (r rawIssue) normalize(roleField string) (Issue, error) {
	var f issueFields
	if len(r.Fields) > 0 {
		if err := json.Unmarshal(r.Fields, &f); err != nil {
			return Issue{}, err
		}
	}
	issue := Issue{
		Key:             r.Key,
		Type:            f.IssueType.Name,
		StatusName:      f.Status.Name,
		StatusCategory:  f.Status.StatusCategory.Key,
		EstimateSeconds: deref(f.OriginalEstimate),
		SpentSeconds:    deref(f.TimeSpent),
	}
	if roleField != "" && len(r.Fields) > 0 {
		var all map[string]json.RawMessage
		if err := json.Unmarshal(r.Fields, &all); err != nil {
			return Issue{}, err
		}
		issue.Role = roleName(all[roleField])
	}
	return issue, nil
}

// roleName normalizes the role custom field to a plain string. Jira
// serializes select fields either as a bare string or as an option object
// with a "value" member.
func roleName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var opt struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &opt); err == nil {
		return opt.Value
	}
	return ""
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
