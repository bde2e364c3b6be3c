// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles holds the NeuralCode terminal palette and lipgloss styles.

Colors are lipgloss AdaptiveColor values so one palette serves dark and light
terminals. NewTheme picks the background from the ui.theme setting ("auto"
asks termenv) and builds every style the chat screen uses.

# Layout

The chat screen is split in two panes once the terminal is wide enough:

	+-----------+--------------------------------+
	| sidebar   | header                         |
	| programs  | messages                       |
	| settings  | quick actions / input          |
	+-----------+--------------------------------+

Below SidebarMinWidth columns the sidebar is hidden and the chat pane takes
the full width.
*/
package styles
