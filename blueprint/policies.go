package blueprint

import (
	"github.com/opencm/cloudify-common-opencm/dslerr"
	"github.com/opencm/cloudify-common-opencm/loader"
)

// processRefOrInline implements the Workflow/Policy Value Processor
// (spec.md §4.12): a ref-or-inline value resolves to its "ref" string if
// present, else to the value under inlineKey. Ref substitution to actual
// file contents already happened during the Ref Inliner pass (§4.4), so
// by this point "ref" values are plain text.
func processRefOrInline(raw any, inlineKey string) (any, error) {
	m, ok := raw.(loader.Doc)
	if !ok {
		return raw, nil
	}
	if ref, ok := m["ref"]; ok {
		return ref, nil
	}
	return m[inlineKey], nil
}

// processWorkflows re-processes every value of a workflows mapping
// through the ref-or-inline rule (spec.md §4.9 step 9, §4.12).
func processWorkflows(workflows loader.Doc) (map[string]any, error) {
	out := map[string]any{}
	for name, raw := range workflows {
		value, err := processRefOrInline(raw, "radial")
		if err != nil {
			return nil, err
		}
		out[name] = value
	}
	return out, nil
}

// policiesAndRules is the pair produced by processing the top-level
// "policies" section: event definitions keyed by name, and rule
// definitions keyed by name (spec.md §4.9 "top_level_policies_and_rules_tuple").
type policiesAndRules struct {
	Events map[string]any
	Rules  map[string]any
}

// processPolicies splits the top-level policies section into its
// "types" (policy event definitions) and "rules" subsections.
func processPolicies(policies loader.Doc) (*policiesAndRules, error) {
	result := &policiesAndRules{Events: map[string]any{}, Rules: map[string]any{}}

	if types, ok := policies["types"].(loader.Doc); ok {
		for name, raw := range types {
			obj, _ := raw.(loader.Doc)
			message, _ := obj["message"]
			policy, err := processRefOrInline(obj, "policy")
			if err != nil {
				return nil, err
			}
			result.Events[name] = map[string]any{
				"message": message,
				"policy":  policy,
			}
		}
	}
	if rules, ok := policies["rules"].(loader.Doc); ok {
		for name, raw := range rules {
			result.Rules[name] = loader.DeepCopy(raw)
		}
	}

	return result, nil
}

// validateNodePolicies checks that every policy (and each of its rules)
// a node declares is defined in the top-level policies section (spec.md
// §4.9 step 10, codes 16/17).
func validateNodePolicies(policies []any, nodeName string, topLevel *policiesAndRules) error {
	for _, raw := range policies {
		policy, ok := raw.(loader.Doc)
		if !ok {
			continue
		}
		policyName, _ := policy["name"].(string)
		if _, defined := topLevel.Events[policyName]; !defined {
			return dslerr.NewLogic(dslerr.CodeUndefinedPolicy,
				"Failed to parse node %s: policy %s not defined", nodeName, policyName)
		}
		rules, _ := policy["rules"].([]any)
		for _, ruleRaw := range rules {
			rule, ok := ruleRaw.(loader.Doc)
			if !ok {
				continue
			}
			ruleType, _ := rule["type"].(string)
			if _, defined := topLevel.Rules[ruleType]; !defined {
				return dslerr.NewLogic(dslerr.CodeUndefinedRule,
					"Failed to parse node %s: rule %s under policy %s not defined", nodeName, ruleType, policyName)
			}
		}
	}
	return nil
}

// responsePoliciesSection builds the plan's "policies" field: each
// processed node's own policies, keyed by node id (spec.md §4.9's
// response_policies_section, supplemented feature documented in
// SPEC_FULL.md).
func responsePoliciesSection(nodes []Node) map[string]any {
	out := map[string]any{}
	for _, n := range nodes {
		if len(n.Policies) > 0 {
			out[n.ID] = loader.DeepCopy(n.Policies)
		}
	}
	return out
}
