// Package rules provides the built-in design-system rules for dslint.
//
// # Rules
//
//   - no-raw-tailwind-colors: Tailwind palette color classes (bg-red-500,
//     hover:text-slate-900/50) in string literals, template literals and JSX
//     attribute values. Semantic token classes must be used instead.
//
//   - no-hardcoded-api-paths: literals starting with "/api/" outside the API
//     client directories.
//
//   - no-data-fetching-in-presenters: data fetching imports and calls
//     (@tanstack/react-query, axios, swr, fetch, useQuery) inside
//     shared/components, excluding tests and stories.
//
//   - no-i18n-keys-in-stories: translation calls and "*Key" properties in
//     Storybook story files.
//
//   - no-redundant-i18n-key: i18n key properties (labelKey, titleKey,
//     descriptionKey) in object literals. Fixable when the direct property is
//     present.
//
// # Registration
//
// All rules are added to lint.DefaultCatalog from init, together with the
// "design-system/..." names used by the ESLint plugin.
//
// # Packs
//
// Packs are named configuration fragments used by "dslint init --pack".
package rules
